package trigger

import "strings"

// DefaultEndpointTemplate is the Docker Hub build trigger URL; the image and the token fill its two verbs.
const DefaultEndpointTemplate = "https://registry.hub.docker.com/u/%s/trigger/%s/"

// CommandConfiguration captures persisted configuration for build triggers.
type CommandConfiguration struct {
	Endpoint string `mapstructure:"endpoint"`
	Image    string `mapstructure:"image"`
	Token    string `mapstructure:"token"`
}

// DefaultCommandConfiguration targets Docker Hub with no image or token.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{Endpoint: DefaultEndpointTemplate}
}

// Sanitize trims values and restores the default endpoint.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := CommandConfiguration{
		Endpoint: strings.TrimSpace(configuration.Endpoint),
		Image:    strings.TrimSpace(configuration.Image),
		Token:    strings.TrimSpace(configuration.Token),
	}
	if len(sanitized.Endpoint) == 0 {
		sanitized.Endpoint = DefaultEndpointTemplate
	}
	return sanitized
}
