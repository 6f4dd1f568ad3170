package project

import (
	"strings"

	"github.com/frahmantamala/project-tracker/internal/core/common/validation"
)

func init() {
	validation.RegisterOneOf("project_status", IsValidStatus)
	validation.RegisterOneOf("quarter", IsValidQuarter)
}

// ProjectRequest is the body of create and full update. Engagement counters
// are not writable here; they come from the video metrics lookup.
type ProjectRequest struct {
	Source       string            `json:"source" validate:"max=200"`
	Name         string            `json:"projectName" validate:"required,max=200"`
	Status       string            `json:"projectStatus" validate:"required,project_status"`
	Date         string            `json:"date" validate:"max=64"`
	Quarter      string            `json:"quarter" validate:"omitempty,quarter"`
	Category     CategoryRef       `json:"category"`
	Brand        string            `json:"brand" validate:"max=200"`
	Platforms    StringList        `json:"platform"`
	PlatformLink map[string]string `json:"platformLink"`
	SOW          SOW               `json:"sow"`
	Division     string            `json:"division" validate:"omitempty,oneof=Marketing Community"`
}

func (r ProjectRequest) apply(p *Project) {
	p.Source = strings.TrimSpace(r.Source)
	p.Name = strings.TrimSpace(r.Name)
	p.Status = r.Status
	p.Date = strings.TrimSpace(r.Date)
	p.Quarter = r.Quarter
	p.Category = r.Category
	p.Brand = strings.TrimSpace(r.Brand)
	p.Platforms = r.Platforms
	if p.Platforms == nil {
		p.Platforms = StringList{}
	}
	p.PlatformLink = make(map[string]string, len(r.PlatformLink))
	for k, v := range r.PlatformLink {
		if v = strings.TrimSpace(v); v != "" {
			p.PlatformLink[k] = v
		}
	}
	p.SOW = r.SOW
	p.Division = r.Division
}

type StatusRequest struct {
	Status string `json:"projectStatus" validate:"required,project_status"`
}

type ProjectsResponse struct {
	Projects []*Project `json:"projects"`
}

type DeleteResponse struct {
	ID      int64 `json:"id"`
	Deleted bool  `json:"deleted"`
}
