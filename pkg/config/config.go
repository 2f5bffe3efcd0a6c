package config

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"

	_ "embed"

	"github.com/flindersuni/xamlstyle/api"
	"github.com/flindersuni/xamlstyle/api/v1beta1"
	"github.com/flindersuni/xamlstyle/pkg/xaml"
)

// Kind is the kind of a configuration file.
const Kind = "Configuration"

var (
	//go:embed config.yaml
	defaultConfigYAML []byte

	// ValidKinds contains the valid kind values for configuration files.
	ValidKinds = []string{Kind}

	// FileNames are the names searched for in a project and its parents.
	FileNames = []string{".xamlstyle.yaml", ".xamlstyle.yml"}

	// Compile-time interface checks.
	_ v1beta1.Object = (*Config)(nil)
)

// Config is the xamlstyle configuration.
//
//nolint:recvcheck // Must satisfy the jsonschema interface.
type Config struct {
	// Rules configures the rules applied to every workflow.
	Rules *Rules `json:"rules,omitempty" jsonschema:"title=Rules"`
	// Library configures the rules applied to the public workflows of libraries.
	Library *Library `json:"library,omitempty" jsonschema:"title=Library"`
	// Feed configures the package feed used to check dependencies.
	Feed *Feed `json:"feed,omitempty" jsonschema:"title=Feed"`
	// Namespaces adds or replaces XPath namespace bindings.
	Namespaces       xaml.Namespaces `json:"namespaces,omitempty" jsonschema:"title=Namespaces" validate:"dive"`
	v1beta1.TypeMeta `json:",inline"`
}

// Rules configures the default rules.
type Rules struct {
	// Disabled lists rules that are never applied.
	Disabled []string `json:"disabled,omitempty" jsonschema:"title=Disabled Rules"`
	// IgnoreArgumentDefaults lists arguments whose default values are expected.
	IgnoreArgumentDefaults []string `json:"ignoreArgumentDefaults,omitempty" jsonschema:"title=Ignored Argument Defaults"`
	// IgnoreVariableDefaults lists variables whose default values are expected.
	IgnoreVariableDefaults []string `json:"ignoreVariableDefaults,omitempty" jsonschema:"title=Ignored Variable Defaults"`
	// CodeActivities lists the activities that escape into code. Only the
	// lenient expression is used.
	CodeActivities []Activity `json:"codeActivities,omitempty" jsonschema:"title=Code Activities" validate:"dive"`
}

// Library configures the library rules.
type Library struct {
	// When is a CEL expression deciding whether library rules apply to a file.
	When string `json:"when,omitempty" jsonschema:"title=When"`
	// ImportantActivities lists the activities that must be annotated.
	ImportantActivities []Activity `json:"importantActivities,omitempty" jsonschema:"title=Important Activities" validate:"dive"`
}

// Feed configures the package feed.
type Feed struct {
	// URL is the query URL. The package name is appended to it.
	URL string `json:"url,omitempty" jsonschema:"title=URL" validate:"omitempty,url"`
	// Timeout bounds each lookup, e.g. "10s".
	Timeout string `json:"timeout,omitempty" jsonschema:"title=Timeout" validate:"omitempty,duration"`
	// IgnorePrefixes skips dependencies whose names start with any prefix.
	IgnorePrefixes []string `json:"ignorePrefixes,omitempty" jsonschema:"title=Ignored Prefixes"`
}

// Activity describes a kind of activity and how to find it.
type Activity struct {
	// Name identifies the activity kind.
	Name string `json:"name" jsonschema:"title=Name" validate:"required"`
	// Description is used in messages, e.g. "Invoke workflow file activities".
	Description string `json:"description,omitempty" jsonschema:"title=Description"`
	// Lenient matches every activity of this kind.
	Lenient string `json:"lenient" jsonschema:"title=Lenient Expression" validate:"required"`
	// Strict matches the activities of this kind that satisfy the rule.
	Strict string `json:"strict,omitempty" jsonschema:"title=Strict Expression"`
}

// Label returns the description, or the name if there is none.
func (a Activity) Label() string {
	if a.Description != "" {
		return a.Description
	}

	return a.Name
}

// New creates a new [Config] with default values.
func New() *Config {
	c := &Config{
		TypeMeta: v1beta1.TypeMeta{
			APIVersion: v1beta1.APIVersion,
			Kind:       Kind,
		},
	}
	c.EnsureDefaults()

	return c
}

// EnsureDefaults initializes nil fields to their default values.
func (c *Config) EnsureDefaults() {
	if c.Rules == nil {
		c.Rules = &Rules{}
	}

	c.Rules.EnsureDefaults()

	if c.Library == nil {
		c.Library = &Library{}
	}

	c.Library.EnsureDefaults()

	if c.Feed == nil {
		c.Feed = &Feed{}
	}

	c.Feed.EnsureDefaults()
}

// EnsureDefaults initializes nil fields to their default values.
func (r *Rules) EnsureDefaults() {
	if r.IgnoreArgumentDefaults == nil {
		r.IgnoreArgumentDefaults = []string{
			"TestSuiteName",
			"TestResultsFolder",
			"TestOrder",
			"TestCategory",
			"TestEnvironmentBlackList",
		}
	}

	if r.IgnoreVariableDefaults == nil {
		r.IgnoreVariableDefaults = []string{
			"defaultDelayValue",
			"validStudyPeriods",
		}
	}

	if r.CodeActivities == nil {
		r.CodeActivities = []Activity{
			{Name: "InvokeCode", Lenient: "/xaml:Activity//ui:InvokeCode"},
			{Name: "InvokeComMethod", Lenient: "/xaml:Activity//ui:InvokeComMethod"},
			{Name: "InvokeMethod", Lenient: "/xaml:Activity//xaml:InvokeMethod"},
			{Name: "InvokePowerShell", Lenient: "/xaml:Activity//ui:InvokePowerShell"},
		}
	}
}

// DefaultLibraryWhen applies library rules to every workflow that is not
// private.
const DefaultLibraryWhen = `project.library && !(file in project.privateWorkflows)`

// EnsureDefaults initializes nil fields to their default values.
func (l *Library) EnsureDefaults() {
	if l.When == "" {
		l.When = DefaultLibraryWhen
	}

	if l.ImportantActivities == nil {
		l.ImportantActivities = []Activity{
			importantActivity("InvokeWorkflowFile", "Invoke workflow file activities", "ui"),
			importantActivity("FlowDecision", "Flow decisions", "xaml"),
			importantActivity("TryCatch", "Try catch activities", "xaml"),
			importantActivity("RetryScope", "Retry scopes", "ui"),
		}
	}
}

func importantActivity(name, description, prefix string) Activity {
	const attr = "@sap2010:Annotation.AnnotationText"

	lenient := fmt.Sprintf("/xaml:Activity//%s:%s", prefix, name)

	return Activity{
		Name:        name,
		Description: description,
		Lenient:     lenient,
		Strict:      fmt.Sprintf("%s[%s and string-length(%s)!=0]", lenient, attr, attr),
	}
}

// Default feed settings.
const (
	DefaultFeedURL     = "https://www.myget.org/F/workflow/api/v3/query?q="
	DefaultFeedTimeout = 10 * time.Second
)

// EnsureDefaults initializes nil fields to their default values.
func (f *Feed) EnsureDefaults() {
	if f.URL == "" {
		f.URL = DefaultFeedURL
	}

	if f.Timeout == "" {
		f.Timeout = DefaultFeedTimeout.String()
	}

	if f.IgnorePrefixes == nil {
		f.IgnorePrefixes = []string{"Flinders"}
	}
}

// TimeoutDuration returns the parsed timeout, or [DefaultFeedTimeout] when it
// is unset or invalid.
func (f *Feed) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(f.Timeout)
	if err != nil || d <= 0 {
		return DefaultFeedTimeout
	}

	return d
}

// Validate checks requirements that the schema cannot express.
func (c *Config) Validate() error {
	if !slices.Contains(v1beta1.ValidAPIVersions, c.APIVersion) {
		return fmt.Errorf("unsupported apiVersion %q", c.APIVersion)
	}

	if !slices.Contains(ValidKinds, c.Kind) {
		return fmt.Errorf("unsupported kind %q", c.Kind)
	}

	err := structValidator.Struct(c)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	err = c.Namespaces.Validate()
	if err != nil {
		return fmt.Errorf("validate namespaces: %w", err)
	}

	return nil
}

func (c Config) JSONSchemaExtend(jss *jsonschema.Schema) {
	v1beta1.ExtendSchemaWithEnums(jss, v1beta1.ValidAPIVersions, ValidKinds)
}

// MarshalYAML serializes the config to YAML.
func (c Config) MarshalYAML() ([]byte, error) {
	type alias Config

	b, err := api.MarshalYAML(alias(c))
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}

	return b, nil
}

// Write writes the config to the specified path if it doesn't already exist.
func (c Config) Write(path string) error {
	b, err := c.MarshalYAML()
	if err != nil {
		return err
	}

	err = api.WriteIfNotExists(path, b)
	if err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// WriteDefault writes the embedded default config.yaml to the specified path.
// Using force backs up and replaces an existing file.
func WriteDefault(path string, force bool) error {
	err := api.WriteDefaultFile(path, defaultConfigYAML, force, "configuration")
	if err != nil {
		return fmt.Errorf("write default config: %w", err)
	}

	return nil
}

// DefaultYAML returns the embedded default configuration.
func DefaultYAML() []byte {
	return slices.Clone(defaultConfigYAML)
}

// Find returns the configuration file for the project at dir. It searches
// dir and its parents for one of [FileNames], then the user configuration
// directory. It returns an empty string when there is none.
func Find(dir string) (string, error) {
	path, err := api.FindConfigFile(dir, FileNames)
	if err != nil {
		return "", fmt.Errorf("find config: %w", err)
	}

	if path != "" {
		return path, nil
	}

	path = api.GetConfigPath("config.yaml")
	if api.IsFile(path) {
		return path, nil
	}

	return "", nil
}

var structValidator = newStructValidator()

func newStructValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	err := v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())

		return err == nil
	})
	if err != nil {
		panic(err)
	}

	return v
}
