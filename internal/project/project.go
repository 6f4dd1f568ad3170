package project

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	projectDatamodel "github.com/frahmantamala/project-tracker/internal/core/datamodel/project"
)

const (
	StatusDevelopment     = "Development"
	StatusContentProposal = "Content Proposal"
	StatusOngoing         = "Ongoing"
	StatusEditing         = "Editing"
	StatusDelivered       = "Delivered"
	StatusPublished       = "Published"
)

var statuses = []string{
	StatusDevelopment,
	StatusContentProposal,
	StatusOngoing,
	StatusEditing,
	StatusDelivered,
	StatusPublished,
}

func Statuses() []string {
	out := make([]string, len(statuses))
	copy(out, statuses)
	return out
}

func IsValidStatus(s string) bool {
	for _, st := range statuses {
		if st == s {
			return true
		}
	}
	return false
}

func IsValidQuarter(q string) bool {
	switch q {
	case "Q1", "Q2", "Q3", "Q4":
		return true
	}
	return false
}

const (
	DivisionMarketing = "Marketing"
	DivisionCommunity = "Community"
)

// VideoPlatform is the platform whose links are looked up for engagement counts.
const VideoPlatform = "YouTube"

type Project struct {
	ID           int64             `json:"id"`
	Source       string            `json:"source"`
	Name         string            `json:"projectName"`
	Status       string            `json:"projectStatus"`
	Date         string            `json:"date"`
	Quarter      string            `json:"quarter"`
	Category     CategoryRef       `json:"categoryRef"`
	CategoryName string            `json:"category"`
	Brand        string            `json:"brand"`
	Platforms    StringList        `json:"platform"`
	PlatformLink map[string]string `json:"platformLink"`
	SOW          SOW               `json:"sow"`
	Division     string            `json:"division"`
	Views        int64             `json:"views"`
	Likes        int64             `json:"likes"`
	Comments     int64             `json:"comments"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// VideoLink returns the link of the first video platform the project is on.
func (p *Project) VideoLink() (string, bool) {
	for _, platform := range p.Platforms {
		if !strings.EqualFold(platform, VideoPlatform) {
			continue
		}
		for name, link := range p.PlatformLink {
			if strings.EqualFold(name, platform) && strings.TrimSpace(link) != "" {
				return link, true
			}
		}
	}
	return "", false
}

func NewProject(req ProjectRequest) *Project {
	p := &Project{}
	req.apply(p)
	return p
}

func ToDataModel(p *Project) *projectDatamodel.Project {
	row := &projectDatamodel.Project{
		ID:        p.ID,
		Source:    p.Source,
		Name:      p.Name,
		Status:    p.Status,
		Date:      p.Date,
		Quarter:   p.Quarter,
		Brand:     p.Brand,
		Platforms: datatypes.JSONSlice[string](p.Platforms),
		Division:  p.Division,
		Views:     p.Views,
		Likes:     p.Likes,
		Comments:  p.Comments,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if row.Platforms == nil {
		row.Platforms = datatypes.JSONSlice[string]{}
	}

	switch p.Category.Kind {
	case CategoryReference:
		id := p.Category.ID
		row.CategoryID = &id
	case CategoryCustom:
		row.CategoryText = p.Category.Text
	}

	links := datatypes.JSONMap{}
	for k, v := range p.PlatformLink {
		links[k] = v
	}
	row.PlatformLinks = links

	if raw, err := json.Marshal(p.SOW); err == nil {
		row.SOW = datatypes.JSON(raw)
	}
	return row
}

// FromDataModel decodes stored rows. Category names are not resolved here.
// An unreadable SOW column decodes as an empty SOW; use DecodeDataModel to
// see the error.
func FromDataModel(row *projectDatamodel.Project) *Project {
	p, _ := DecodeDataModel(row)
	return p
}

// DecodeDataModel is FromDataModel that also reports a SOW column it could
// not decode. The project is always returned.
func DecodeDataModel(row *projectDatamodel.Project) (*Project, error) {
	p := &Project{
		ID:        row.ID,
		Source:    row.Source,
		Name:      row.Name,
		Status:    row.Status,
		Date:      row.Date,
		Quarter:   row.Quarter,
		Brand:     row.Brand,
		Platforms: StringList(row.Platforms),
		Division:  row.Division,
		Views:     row.Views,
		Likes:     row.Likes,
		Comments:  row.Comments,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if p.Platforms == nil {
		p.Platforms = StringList{}
	}

	switch {
	case row.CategoryID != nil:
		p.Category = ReferenceCategory(*row.CategoryID)
	case row.CategoryText != "":
		p.Category = CustomCategory(row.CategoryText)
	}

	p.PlatformLink = make(map[string]string, len(row.PlatformLinks))
	for k, v := range row.PlatformLinks {
		if s, ok := v.(string); ok {
			p.PlatformLink[k] = s
		}
	}

	if len(row.SOW) > 0 {
		if err := json.Unmarshal(row.SOW, &p.SOW); err != nil {
			p.SOW = SOW{}
			return p, fmt.Errorf("decode sow: %w", err)
		}
	}
	return p, nil
}
