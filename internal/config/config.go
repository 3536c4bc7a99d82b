package config

import (
	"errors"
	"time"

	"github.com/openkcm/common-sdk/pkg/commoncfg"

	"github.com/shopmesh/shopmesh/internal/errs"
)

var (
	ErrConfigurationValuesError = errors.New("configuration value error")
	ErrEmptyBaseDomain          = errors.New("tenancy base domain must be specified")
	ErrTokenTTLOutsideRange     = errors.New("SSO token TTL must be between 1 minute and 1 hour")
	ErrEmptySessionSecret       = errors.New("session signing secret must be specified")
	ErrNonDefinedTaskType       = errors.New("task type is unknown")
	ErrRepeatedTaskType         = errors.New("task type is specified more than once")
)

// Config holds all application configuration parameters
type Config struct {
	commoncfg.BaseConfig `mapstructure:",squash"`

	Database         Database   `yaml:"database"`
	DatabaseReplicas []Database `yaml:"databaseReplicas"`
	HTTP             HTTPServer `yaml:"http"`

	Tenancy      Tenancy      `yaml:"tenancy"`
	SSO          SSO          `yaml:"sso"`
	Session      Session      `yaml:"session"`
	Scheduler    Scheduler    `yaml:"scheduler"`
	Provisioning Provisioning `yaml:"provisioning"`
}

func (c *Config) Validate() error {
	err := c.Tenancy.Validate()
	if err != nil {
		return errs.Wrap(ErrConfigurationValuesError, err)
	}

	err = c.SSO.Validate()
	if err != nil {
		return errs.Wrap(ErrConfigurationValuesError, err)
	}

	err = c.Scheduler.Validate()
	if err != nil {
		return errs.Wrap(ErrConfigurationValuesError, err)
	}

	return nil
}

// Tenancy drives host-based tenant resolution.
type Tenancy struct {
	// BaseDomain is the apex domain of the landlord application. Requests whose
	// host equals BaseDomain (or bare localhost) are central-domain requests.
	BaseDomain string `yaml:"baseDomain" default:"localhost"`

	// ReservedSubdomains are labels that never resolve to a tenant.
	ReservedSubdomains []string `yaml:"reservedSubdomains"`

	// TrialDays is the trial window granted to newly provisioned stores.
	TrialDays int `yaml:"trialDays" default:"14"`
}

func (t *Tenancy) Validate() error {
	if t.BaseDomain == "" {
		return ErrEmptyBaseDomain
	}

	return nil
}

// DefaultReservedSubdomains apply when none are configured.
var DefaultReservedSubdomains = []string{"www", "admin", "mail"}

func (t *Tenancy) Reserved() []string {
	if len(t.ReservedSubdomains) == 0 {
		return DefaultReservedSubdomains
	}

	return t.ReservedSubdomains
}

const (
	MinTokenTTL = time.Minute
	MaxTokenTTL = time.Hour
)

// SSO holds cross-domain login bridge config
type SSO struct {
	TokenTTL time.Duration `yaml:"tokenTTL" default:"5m"`

	// RedirectScheme is the scheme used when building the tenant redirect URL.
	RedirectScheme string `yaml:"redirectScheme" default:"https"`
}

func (s *SSO) Validate() error {
	if s.TokenTTL < MinTokenTTL || s.TokenTTL > MaxTokenTTL {
		return ErrTokenTTLOutsideRange
	}

	return nil
}

// Session holds session cookie signing config
type Session struct {
	Secret commoncfg.SourceRef `yaml:"secret"`
	TTL    time.Duration       `yaml:"ttl" default:"24h"`
}

// HTTPServer holds http server config
type HTTPServer struct {
	Address         string        `yaml:"address" default:":8080"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" default:"5s"`
}

// Database holds database config
type Database struct {
	Name     string              `yaml:"name"`
	Port     string              `yaml:"port"`
	Host     commoncfg.SourceRef `yaml:"host"`
	User     commoncfg.SourceRef `yaml:"user"`
	Secret   commoncfg.SourceRef `yaml:"secret"`
	Migrator Migrator            `yaml:"migrator"`
}

// Migrator points at the versioned SQL applied to the shared schema.
// Tenant schemas are not migrated with SQL files; their tables are created
// from the registered models when a store is provisioned.
type Migrator struct {
	Shared string `yaml:"shared" default:"migrations/shared"`
}

// Scheduler holds the background task queue config
type Scheduler struct {
	TaskQueue Redis  `yaml:"taskQueue"`
	Tasks     []Task `yaml:"tasks"`
}

func (s *Scheduler) Validate() error {
	checkedTasks := make(map[string]struct{}, len(s.Tasks))
	for _, task := range s.Tasks {
		_, found := DefinedTasks[task.TaskType]
		if !found {
			return ErrNonDefinedTaskType
		}

		_, found = checkedTasks[task.TaskType]
		if found {
			return ErrRepeatedTaskType
		}

		checkedTasks[task.TaskType] = struct{}{}
	}

	return nil
}

// Task holds a task config
type Task struct {
	Cronspec string `yaml:"cronspec"`
	TaskType string `yaml:"taskType"`
	Retries  int    `yaml:"retries"`
}

// Redis holds Redis client config
type Redis struct {
	Host commoncfg.SourceRef `yaml:"host"`
	Port string              `yaml:"port"`
	ACL  RedisACL            `yaml:"acl"`
}

type RedisACL struct {
	Enabled  bool                `yaml:"enabled"`
	Password commoncfg.SourceRef `yaml:"password"`
	Username commoncfg.SourceRef `yaml:"username"`
}

// Provisioning config of application
type Provisioning struct {
	InitPlans InitPlansConfig `yaml:"initPlans"`
}

// InitPlansConfig points at the plan catalog seeded into the registry on boot.
type InitPlansConfig struct {
	Enabled bool                `yaml:"enabled"`
	Source  commoncfg.SourceRef `yaml:"source"`
}

// PlanSeed is one entry of the YAML plan catalog.
type PlanSeed struct {
	Slug              string   `yaml:"slug"`
	Name              string   `yaml:"name"`
	PriceMonthly      float64  `yaml:"priceMonthly"`
	PriceYearly       float64  `yaml:"priceYearly"`
	MaxProducts       int      `yaml:"maxProducts"`
	MaxOrdersPerMonth int      `yaml:"maxOrdersPerMonth"`
	MaxStorageMB      int      `yaml:"maxStorageMb"`
	MaxUsers          int      `yaml:"maxUsers"`
	Features          []string `yaml:"features"`
	Featured          bool     `yaml:"featured"`
}
