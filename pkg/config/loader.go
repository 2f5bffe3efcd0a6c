package config

import (
	"bytes"

	"github.com/flindersuni/xamlstyle/api"
	"github.com/flindersuni/xamlstyle/api/v1beta1"
	"github.com/flindersuni/xamlstyle/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*loaderOptions)

type loaderOptions struct {
	validator Validator
	colored   bool
}

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(o *loaderOptions) {
		o.validator = v
	}
}

// WithColor enables colored source excerpts in errors.
func WithColor(colored bool) LoaderOpt {
	return func(o *loaderOptions) {
		o.colored = colored
	}
}

// Loader is a generic configuration loader that handles validation,
// YAML parsing, and error formatting for any config type T.
type Loader[T v1beta1.Object] struct {
	validator Validator
	newFunc   func() T
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
// The newFunc parameter is the constructor for type T (e.g., config.New).
func NewLoaderFromBytes[T v1beta1.Object](
	data []byte,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) *Loader[T] {
	options := &loaderOptions{
		validator: defaultValidator,
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Loader[T]{
		data:      data,
		newFunc:   newFunc,
		validator: options.validator,
		yamlError: yaml.NewErrorWrapper(
			yaml.WithSource(data),
			yaml.WithSourceLines(4),
			yaml.WithColor(options.colored),
		),
	}
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile[T v1beta1.Object](
	path string,
	newFunc func() T,
	defaultValidator Validator,
	opts ...LoaderOpt,
) (*Loader[T], error) {
	data, err := api.ReadFile(path)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return NewLoaderFromBytes(data, newFunc, defaultValidator, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader[T]) Validate() error {
	var anyConfig any

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(&anyConfig)
	if err != nil {
		return l.yamlError.Wrap(err)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return l.yamlError.Wrap(err)
		}
	}

	return nil
}

// Load parses and returns the configuration. Types with a Validate method
// are validated after defaults are applied.
//
//nolint:ireturn // Generic type parameter return is intentional.
func (l *Loader[T]) Load() (T, error) {
	cfg := l.newFunc()

	dec := yaml.NewDecoder(bytes.NewReader(l.data))

	err := dec.Decode(cfg)
	if err != nil {
		var zero T
		return zero, l.yamlError.Wrap(err)
	}

	cfg.EnsureDefaults()

	if v, ok := any(cfg).(interface{ Validate() error }); ok {
		err = v.Validate()
		if err != nil {
			var zero T
			return zero, err //nolint:wrapcheck // Already wrapped by Validate.
		}
	}

	return cfg, nil
}

// Load reads and validates the configuration file at path. An empty path
// loads the embedded default configuration.
func Load(path string, opts ...LoaderOpt) (*Config, error) {
	v, err := DefaultValidator()
	if err != nil {
		return nil, err
	}

	var l *Loader[*Config]
	if path == "" {
		l = NewLoaderFromBytes(defaultConfigYAML, newEmpty, v, opts...)
	} else {
		l, err = NewLoaderFromFile(path, newEmpty, v, opts...)
		if err != nil {
			return nil, err
		}
	}

	err = l.Validate()
	if err != nil {
		return nil, err
	}

	return l.Load()
}

// newEmpty returns a [Config] without defaults, so that values absent from a
// file are filled by [Config.EnsureDefaults] rather than decoded over.
func newEmpty() *Config {
	return &Config{}
}
