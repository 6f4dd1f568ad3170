package permission

import "sort"

// Permission names are matched byte for byte; there is no normalisation.
const (
	ViewProjects   = "View projects"
	AddProjects    = "Add projects"
	EditProjects   = "Edit projects"
	DeleteProjects = "Delete projects"
	ExportProjects = "Export projects"

	ViewUsers   = "View users"
	AddUsers    = "Add users"
	EditUsers   = "Edit users"
	DeleteUsers = "Delete users"

	ViewCategories   = "View categories"
	AddCategories    = "Add categories"
	EditCategories   = "Edit categories"
	DeleteCategories = "Delete categories"

	ViewRoles   = "View roles"
	AddRoles    = "Add roles"
	EditRoles   = "Edit roles"
	DeleteRoles = "Delete roles"

	ViewActivity  = "View activity"
	ViewAnalytics = "View analytics"
)

var catalog = map[string]struct{}{
	ViewProjects: {}, AddProjects: {}, EditProjects: {}, DeleteProjects: {}, ExportProjects: {},
	ViewUsers: {}, AddUsers: {}, EditUsers: {}, DeleteUsers: {},
	ViewCategories: {}, AddCategories: {}, EditCategories: {}, DeleteCategories: {},
	ViewRoles: {}, AddRoles: {}, EditRoles: {}, DeleteRoles: {},
	ViewActivity: {}, ViewAnalytics: {},
}

func IsKnown(name string) bool {
	_, ok := catalog[name]
	return ok
}

// All returns the catalog sorted by name.
func All() []string {
	out := make([]string, 0, len(catalog))
	for name := range catalog {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Unknown returns the names in perms that are not in the catalog, in input order.
func Unknown(perms []string) []string {
	var out []string
	for _, p := range perms {
		if !IsKnown(p) {
			out = append(out, p)
		}
	}
	return out
}
