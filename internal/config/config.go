package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"staff-bot/internal/models"
)

// Config holds runtime settings read from the environment.
type Config struct {
	BotToken string

	DataDir   string
	StaffFile string

	ScheduleSpreadsheetID string
	ScheduleFallbackGID   string
	SheetKeyword          string
	PrepsSpreadsheetID    string
	PrepsGID              string

	Timezone   string
	ListenAddr string

	Location *time.Location
}

// FromEnv builds a Config from environment variables. BOT_TOKEN is the
// only required value.
func FromEnv() (*Config, error) {
	token := os.Getenv("BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is required")
	}

	cfg := &Config{
		BotToken:              token,
		DataDir:               getEnv("DATA_DIR", "data"),
		StaffFile:             getEnv("STAFF_FILE", "staff.yaml"),
		ScheduleSpreadsheetID: getEnv("SCHEDULE_SPREADSHEET_ID", "1hbvUroW0SxAbTbsn0nn-9wJyYKz-zLDJQ_PS7b83SzA"),
		ScheduleFallbackGID:   getEnv("SCHEDULE_FALLBACK_GID", "1833845756"),
		SheetKeyword:          getEnv("SHEET_KEYWORD", "кухня"),
		PrepsSpreadsheetID:    getEnv("PREPS_SPREADSHEET_ID", "1TdoxhVu3l2blTtpf_ekoIESR7MYQDxs1"),
		PrepsGID:              getEnv("PREPS_GID", "1242464660"),
		Timezone:              getEnv("TIMEZONE", "Europe/Moscow"),
		ListenAddr:            getEnv("LISTEN_ADDR", ":5000"),
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Employee is one staff entry in the YAML file.
type Employee struct {
	Name        string   `yaml:"name" validate:"required"`
	Aliases     []string `yaml:"aliases,omitempty"`
	Blacklisted bool     `yaml:"blacklisted,omitempty"`
}

// Staff is the static staff configuration: identities, rates and role
// keywords. Loaded once at startup, immutable afterwards.
type Staff struct {
	Employees []Employee `yaml:"employees,omitempty" validate:"dive"`
	// ManualEmployees are administrative accounts with no schedule row.
	ManualEmployees []string `yaml:"manualEmployees,omitempty"`
	// Managers is the flat allow-list of surnames for privileged actions.
	Managers []string `yaml:"managers,omitempty"`

	// RoleKeywords maps a lowercase keyword contained in a raw role
	// string to a canonical role. Both ё and е spellings must be listed.
	RoleKeywords map[string]models.Role `yaml:"roleKeywords,omitempty"`
	// HourlyRates is keyed by canonical role.
	HourlyRates map[models.Role]float64 `yaml:"hourlyRates,omitempty" validate:"dive,min=0"`
	DefaultRate float64                 `yaml:"defaultRate,omitempty" validate:"min=0"`
}

var validate = validator.New()

// DefaultStaff returns the built-in staff tables used when no YAML file
// is present. Rates follow the wages system.
func DefaultStaff() *Staff {
	return &Staff{
		RoleKeywords: map[string]models.Role{
			"менеджер":    models.RoleManager,
			"наставник":   models.RoleMentor,
			"инструктор":  models.RoleInstructor,
			"универсал":   models.RoleUniversal,
			"кассир":      models.RoleCashier,
			"пиццамейкер": models.RolePizzamaker,
			"курьер":      models.RoleCourier,
			"стажёр":      models.RoleTrainee,
			"стажер":      models.RoleTrainee,
		},
		HourlyRates: map[models.Role]float64{
			models.RoleTrainee:    130,
			models.RolePizzamaker: 205,
			models.RoleCashier:    205,
			models.RoleUniversal:  225,
			models.RoleInstructor: 225,
			models.RoleMentor:     230,
			models.RoleManager:    255,
		},
		DefaultRate: 205,
	}
}

// LoadStaff reads and validates the staff YAML file. A missing file is
// not an error: the built-in defaults apply.
func LoadStaff(path string) (*Staff, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultStaff(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read staff file: %w", err)
	}

	staff := DefaultStaff()
	if err := yaml.Unmarshal(data, staff); err != nil {
		return nil, fmt.Errorf("failed to parse staff file: %w", err)
	}

	if err := validate.Struct(staff); err != nil {
		return nil, fmt.Errorf("staff config validation failed: %w", err)
	}

	// Unknown roles in the keyword table would make rate lookups
	// silently fall through to the default, so reject them at load time.
	for kw, role := range staff.RoleKeywords {
		if !knownRole(role) {
			return nil, fmt.Errorf("roleKeywords[%q]: unknown role %q", kw, role)
		}
	}

	return staff, nil
}

func knownRole(r models.Role) bool {
	switch r {
	case models.RoleManager, models.RoleMentor, models.RoleInstructor,
		models.RoleUniversal, models.RolePizzamaker, models.RoleCashier,
		models.RoleCourier, models.RoleTrainee, models.RoleUnknown:
		return true
	}
	return false
}
