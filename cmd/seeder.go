package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/frahmantamala/project-tracker/internal"
	"github.com/frahmantamala/project-tracker/internal/permission"
	"github.com/frahmantamala/project-tracker/internal/project"
	"github.com/frahmantamala/project-tracker/internal/role"
	"github.com/frahmantamala/project-tracker/internal/user"
	"github.com/frahmantamala/project-tracker/internal/videometrics"
	"github.com/frahmantamala/project-tracker/pkg/logger"
)

type seedData struct {
	Roles      []seedRole    `yaml:"roles"`
	Users      []seedUser    `yaml:"users"`
	Categories []string      `yaml:"categories"`
	Projects   []seedProject `yaml:"projects"`
}

type seedRole struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Permissions []string `yaml:"permissions"`
}

type seedUser struct {
	UID      string `yaml:"uid"`
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Role     string `yaml:"role"`
	Password string `yaml:"password"`
}

type seedProject struct {
	Source    string            `yaml:"source"`
	Name      string            `yaml:"name"`
	Status    string            `yaml:"status"`
	Date      string            `yaml:"date"`
	Quarter   string            `yaml:"quarter"`
	Category  string            `yaml:"category"`
	Brand     string            `yaml:"brand"`
	Platforms []string          `yaml:"platforms"`
	Links     map[string]string `yaml:"links"`
	SOW       []project.SOWItem `yaml:"sow"`
	SOWText   string            `yaml:"sow_text"`
	Division  string            `yaml:"division"`
	Views     int64             `yaml:"views"`
	Likes     int64             `yaml:"likes"`
	Comments  int64             `yaml:"comments"`
}

func loadSeedFile(path string) (*seedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var data seedData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &data, nil
}

// permissions expands "*" to the whole catalog.
func (r seedRole) permissions() []string {
	for _, p := range r.Permissions {
		if p == "*" {
			return permission.All()
		}
	}
	return r.Permissions
}

func (p seedProject) request(categories map[string]int64) project.ProjectRequest {
	req := project.ProjectRequest{
		Source:       p.Source,
		Name:         p.Name,
		Status:       p.Status,
		Date:         p.Date,
		Quarter:      p.Quarter,
		Brand:        p.Brand,
		Platforms:    project.StringList(p.Platforms),
		PlatformLink: p.Links,
		Division:     p.Division,
	}
	if id, ok := categories[strings.ToLower(strings.TrimSpace(p.Category))]; ok {
		req.Category = project.ReferenceCategory(id)
	} else if p.Category != "" {
		req.Category = project.CustomCategory(p.Category)
	}
	switch {
	case len(p.SOW) > 0:
		req.SOW = project.BundleSOW(p.SOW...)
	case p.SOWText != "":
		req.SOW = project.CustomSOW(p.SOWText)
	}
	return req
}

// runSeed is safe to run repeatedly: existing roles, users and categories
// are left alone and projects are matched by name.
func runSeed(ctx context.Context, app *application, data *seedData) error {
	log := app.Logger

	for _, r := range data.Roles {
		_, err := app.Roles.Create(ctx, role.RoleRequest{Name: r.Name, Description: r.Description, Permissions: r.permissions()})
		switch {
		case errors.Is(err, internal.ErrDuplicateRole):
			log.Info("role already exists", "role", r.Name)
		case err != nil:
			return fmt.Errorf("seed role %q: %w", r.Name, err)
		default:
			log.Info("seeded role", "role", r.Name)
		}
	}

	for _, u := range data.Users {
		_, err := app.Users.Create(ctx, user.CreateUserRequest{UID: u.UID, Name: u.Name, Email: u.Email, Role: u.Role, Password: u.Password})
		switch {
		case errors.Is(err, internal.ErrDuplicateUID), errors.Is(err, internal.ErrDuplicateEmail):
			log.Info("user already exists", "email", u.Email)
		case err != nil:
			return fmt.Errorf("seed user %q: %w", u.Email, err)
		default:
			log.Info("seeded user", "email", u.Email)
		}
	}

	for _, name := range data.Categories {
		_, err := app.Categories.Create(ctx, name)
		if err != nil && !errors.Is(err, internal.ErrDuplicateCategory) {
			return fmt.Errorf("seed category %q: %w", name, err)
		}
	}

	names, err := app.Categories.Names(ctx)
	if err != nil {
		return fmt.Errorf("load categories: %w", err)
	}
	byName := make(map[string]int64, len(names))
	for id, name := range names {
		byName[strings.ToLower(name)] = id
	}

	existing, err := app.Projects.List(ctx)
	if err != nil {
		return fmt.Errorf("load projects: %w", err)
	}
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p.Name] = true
	}

	for _, sp := range data.Projects {
		if seen[sp.Name] {
			log.Info("project already exists", "project", sp.Name)
			continue
		}
		created, err := app.Projects.Create(ctx, sp.request(byName))
		if err != nil {
			return fmt.Errorf("seed project %q: %w", sp.Name, err)
		}
		seen[sp.Name] = true

		if sp.Views > 0 || sp.Likes > 0 || sp.Comments > 0 {
			stats := videometrics.Stats{Views: sp.Views, Likes: sp.Likes, Comments: sp.Comments}
			if err := app.ProjectRepo.UpdateMetrics(ctx, created.ID, stats); err != nil {
				return fmt.Errorf("seed metrics for %q: %w", sp.Name, err)
			}
		}
		log.Info("seeded project", "project", sp.Name, "id", created.ID)
	}

	return nil
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Loads roles, users, categories and projects from a YAML file. Existing records are kept.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		initLogger(cfg.Observability.Logging)
		log := logger.LoggerWrapper()

		data, err := loadSeedFile(seedFile)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		db, err := initDB(ctx, cfg.Database)
		if err != nil {
			return err
		}

		app, err := buildApplication(ctx, cfg, db, log)
		if err != nil {
			return err
		}
		defer app.Close(context.Background())

		if err := runSeed(ctx, app, data); err != nil {
			return err
		}
		log.Info("seed complete", "file", seedFile)
		return nil
	},
}
