package export

import (
	"github.com/frahmantamala/project-tracker/internal/project"
)

var ProjectColumns = []Column{
	{Field: "id", Header: "ID"},
	{Field: "source", Header: "Source"},
	{Field: "projectName", Header: "Project Name"},
	{Field: "projectStatus", Header: "Status"},
	{Field: "date", Header: "Date"},
	{Field: "quarter", Header: "Quarter"},
	{Field: "category", Header: "Category"},
	{Field: "brand", Header: "Brand"},
	{Field: "platform", Header: "Platform"},
	{Field: "platformLink", Header: "Platform Link"},
	{Field: "sow", Header: "SOW"},
	{Field: "division", Header: "Division"},
	{Field: "views", Header: "Views"},
	{Field: "likes", Header: "Likes"},
	{Field: "comments", Header: "Comments"},
}

// RowFromProject flattens a resolved project. The category column carries
// the resolved display name.
func RowFromProject(p *project.Project) Row {
	row := Row{
		"id":            p.ID,
		"source":        p.Source,
		"projectName":   p.Name,
		"projectStatus": p.Status,
		"date":          p.Date,
		"quarter":       p.Quarter,
		"category":      p.CategoryName,
		"brand":         p.Brand,
		"platform":      []string(p.Platforms),
		"platformLink":  p.PlatformLink,
		"division":      p.Division,
		"views":         p.Views,
		"likes":         p.Likes,
		"comments":      p.Comments,
	}

	switch p.SOW.Kind {
	case project.SOWCustom:
		row["sow"] = p.SOW.Text
	case project.SOWBundle:
		items := make([]map[string]any, 0, len(p.SOW.Items))
		for _, it := range p.SOW.Items {
			items = append(items, map[string]any{"sow": it.SOW, "content": it.Content})
		}
		row["sow"] = items
	}
	return row
}
