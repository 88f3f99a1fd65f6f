// Package config resolves pod manager settings from constructor
// options, environment variables, an optional YAML config file and
// built-in defaults, in that precedence order.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Built-in defaults. Every numeric and boolean setting has a usable
// value even when nothing else is configured.
const (
	DefaultMaxGPUPrice              = 0.30
	DefaultContainerDiskGB          = 20
	DefaultGPUCount                 = 1
	DefaultVolumeMountPath          = "/workspace"
	DefaultInactivityTimeoutSeconds = 3600
	DefaultImageName                = "runpod/pytorch:latest"
	DefaultMaxAttempts              = 3
	DefaultRetryBackoff             = 2 * time.Second
	DefaultStatusTimeout            = 5 * time.Minute
	DefaultStatusPollInterval       = 5 * time.Second
)

// Config holds the resolved settings for a project. It is built once
// and treated as immutable afterwards.
type Config struct {
	ProjectName              string
	APIKey                   string
	APIBaseURL               string
	MaxGPUPrice              float64
	ContainerDiskGB          int
	GPUCount                 int
	ImageNameBase            string
	TemplateID               string
	NetworkVolumeID          string
	VolumeMountPath          string
	SupportPublicIP          bool
	StartSSH                 bool
	InactivityTimeoutSeconds int

	// Retry and status-wait tuning for the lifecycle manager.
	MaxAttempts        int
	RetryBackoff       time.Duration
	StatusTimeout      time.Duration
	StatusPollInterval time.Duration
}

// Option overrides a resolved setting. Options are applied last, so
// they win over environment variables and the config file.
type Option func(*Config)

// WithAPIKey overrides the provider API key.
func WithAPIKey(key string) Option {
	return func(c *Config) { c.APIKey = key }
}

// WithMaxGPUPrice overrides the hourly price ceiling.
func WithMaxGPUPrice(price float64) Option {
	return func(c *Config) { c.MaxGPUPrice = price }
}

// WithGPUCount overrides the number of GPUs per pod.
func WithGPUCount(count int) Option {
	return func(c *Config) { c.GPUCount = count }
}

// WithImageNameBase overrides the container image base name.
func WithImageNameBase(image string) Option {
	return func(c *Config) { c.ImageNameBase = image }
}

// WithAPIBaseURL points the provider client at a different endpoint.
func WithAPIBaseURL(url string) Option {
	return func(c *Config) { c.APIBaseURL = url }
}

// fileConfig is the YAML config file schema. Pointer fields so absent
// keys do not clobber lower-precedence values.
type fileConfig struct {
	APIKey                   *string  `yaml:"api_key"`
	APIBaseURL               *string  `yaml:"api_base_url"`
	MaxGPUPrice              *float64 `yaml:"max_gpu_price"`
	ContainerDiskGB          *int     `yaml:"container_disk_gb"`
	GPUCount                 *int     `yaml:"gpu_count"`
	ImageNameBase            *string  `yaml:"image_name_base"`
	TemplateID               *string  `yaml:"template_id"`
	NetworkVolumeID          *string  `yaml:"network_volume_id"`
	VolumeMountPath          *string  `yaml:"volume_mount_path"`
	SupportPublicIP          *bool    `yaml:"support_public_ip"`
	StartSSH                 *bool    `yaml:"start_ssh"`
	InactivityTimeoutSeconds *int     `yaml:"inactivity_timeout_seconds"`
}

// Load resolves the configuration for projectName. configFile may be
// empty. The only fatal condition besides a malformed file or
// environment value is a missing API key, reported by Validate.
func Load(projectName, configFile string, opts ...Option) (*Config, error) {
	cfg := &Config{
		ProjectName:              projectName,
		MaxGPUPrice:              DefaultMaxGPUPrice,
		ContainerDiskGB:          DefaultContainerDiskGB,
		GPUCount:                 DefaultGPUCount,
		VolumeMountPath:          DefaultVolumeMountPath,
		SupportPublicIP:          true,
		StartSSH:                 true,
		InactivityTimeoutSeconds: DefaultInactivityTimeoutSeconds,
		MaxAttempts:              DefaultMaxAttempts,
		RetryBackoff:             DefaultRetryBackoff,
		StatusTimeout:            DefaultStatusTimeout,
		StatusPollInterval:       DefaultStatusPollInterval,
	}

	if configFile != "" {
		if err := cfg.applyFile(configFile); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&c.APIKey, fc.APIKey)
	setString(&c.APIBaseURL, fc.APIBaseURL)
	setString(&c.ImageNameBase, fc.ImageNameBase)
	setString(&c.TemplateID, fc.TemplateID)
	setString(&c.NetworkVolumeID, fc.NetworkVolumeID)
	setString(&c.VolumeMountPath, fc.VolumeMountPath)
	if fc.MaxGPUPrice != nil {
		c.MaxGPUPrice = *fc.MaxGPUPrice
	}
	if fc.ContainerDiskGB != nil {
		c.ContainerDiskGB = *fc.ContainerDiskGB
	}
	if fc.GPUCount != nil {
		c.GPUCount = *fc.GPUCount
	}
	if fc.SupportPublicIP != nil {
		c.SupportPublicIP = *fc.SupportPublicIP
	}
	if fc.StartSSH != nil {
		c.StartSSH = *fc.StartSSH
	}
	if fc.InactivityTimeoutSeconds != nil {
		c.InactivityTimeoutSeconds = *fc.InactivityTimeoutSeconds
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString(&c.APIKey, "RUNPOD_API_KEY")
	envString(&c.APIBaseURL, "RUNPOD_API_BASE_URL")
	envString(&c.ImageNameBase, "IMAGE_NAME_BASE")
	envString(&c.TemplateID, "TEMPLATE_ID")
	envString(&c.NetworkVolumeID, "NETWORK_VOLUME_ID")
	envString(&c.VolumeMountPath, "VOLUME_MOUNT_PATH")
	if err := envFloat(&c.MaxGPUPrice, "MAX_GPU_PRICE"); err != nil {
		return err
	}
	if err := envInt(&c.ContainerDiskGB, "CONTAINER_DISK"); err != nil {
		return err
	}
	if err := envInt(&c.GPUCount, "GPU_COUNT"); err != nil {
		return err
	}
	if err := envInt(&c.InactivityTimeoutSeconds, "INACTIVITY_TIMEOUT_SECONDS"); err != nil {
		return err
	}
	if err := envBool(&c.SupportPublicIP, "SUPPORT_PUBLIC_IP"); err != nil {
		return err
	}
	return envBool(&c.StartSSH, "START_SSH")
}

// Validate checks that required settings are present and sane.
func (c *Config) Validate() error {
	if c.ProjectName == "" {
		return fmt.Errorf("project name cannot be empty")
	}
	if c.APIKey == "" {
		return fmt.Errorf("RUNPOD_API_KEY not found in environment, config file or options")
	}
	if c.MaxGPUPrice <= 0 {
		return fmt.Errorf("max GPU price must be positive, got %v", c.MaxGPUPrice)
	}
	if c.GPUCount < 1 {
		return fmt.Errorf("GPU count must be at least 1, got %d", c.GPUCount)
	}
	if c.ContainerDiskGB < 1 {
		return fmt.Errorf("container disk must be at least 1GB, got %d", c.ContainerDiskGB)
	}
	return nil
}

// ImageFor returns the container image to deploy for podType. A base
// image without a tag gets the pod type appended as its tag; a tagged
// base is used as-is.
func (c *Config) ImageFor(podType string) string {
	if c.ImageNameBase == "" {
		return DefaultImageName
	}
	if strings.Contains(c.ImageNameBase, ":") {
		return c.ImageNameBase
	}
	return c.ImageNameBase + ":" + podType
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envFloat(dst *float64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func envInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}

func envBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(strings.ToLower(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = parsed
	return nil
}
