package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"

	"github.com/verdant-health/clinsight/internal/domain"
	"github.com/verdant-health/clinsight/internal/inference"
)

type Config struct {
	// Server
	Port int `env:"PORT" envDefault:"3000"`

	// Storage
	DatabaseURL string `env:"DATABASE_URL,required"`

	// External services
	GenerateEndpoint string `env:"GENERATE_ENDPOINT" envDefault:"http://127.0.0.1:8001/generate"`
	InferenceBaseURL string `env:"INFERENCE_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	RetinaEndpoint   string `env:"RETINA_ENDPOINT" envDefault:"https://api-inference.huggingface.co/models/retina"`

	// Rate limiting (requests per minute per client)
	RateLimitPerMinute int `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Models returns the diagnostic model garden. One entry per external
// inference endpoint, each with the response adapter its provider needs.
func (c *Config) Models() []domain.ModelDescriptor {
	return []domain.ModelDescriptor{
		{Name: "Pneumonia", EndpointURL: c.InferenceBaseURL + "/pneumonia_detection", Adapter: inference.AdapterFastAPI},
		{Name: "Brain Tumor", EndpointURL: c.InferenceBaseURL + "/braintumor_detection", Adapter: inference.AdapterFastAPI},
		{Name: "Skin Cancer", EndpointURL: c.InferenceBaseURL + "/skincancer_detection", Adapter: inference.AdapterFastAPI},
		{Name: "Skin Infection", EndpointURL: c.InferenceBaseURL + "/skindisease_classification", Adapter: inference.AdapterFastAPI},
		{Name: "Skin Lesion", EndpointURL: c.InferenceBaseURL + "/skinlesion_classification", Adapter: inference.AdapterFastAPI},
		{Name: "Diabetic Retinopathy", EndpointURL: c.RetinaEndpoint, Adapter: inference.AdapterHuggingFace},
	}
}

// FindModel looks a garden model up by name.
func (c *Config) FindModel(name string) (domain.ModelDescriptor, bool) {
	for _, m := range c.Models() {
		if m.Name == name {
			return m, true
		}
	}
	return domain.ModelDescriptor{}, false
}
