package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/hubkeeper/internal/execshell"
	"github.com/temirov/hubkeeper/internal/repos/shared"
)

const (
	curlExecutorMissingMessageConstant      = "curl executor not configured"
	endpointInvalidMessageConstant          = "invalid trigger endpoint template"
	curlSilentFlagConstant                  = "--silent"
	curlShowErrorFlagConstant               = "--show-error"
	curlFailFlagConstant                    = "--fail"
	curlHeaderFlagConstant                  = "-H"
	curlJSONContentTypeHeaderConstant       = "Content-Type: application/json"
	curlDataFlagConstant                    = "--data"
	curlMethodFlagConstant                  = "-X"
	curlPostMethodConstant                  = "POST"
	endpointTemplateInvalidTemplateConstant = "%w: %q must contain exactly two %%s verbs (image, token) and no other verbs"
	endpointVerbConstant                    = "%s"
	endpointPercentConstant                 = "%"
	endpointEscapedPercentConstant          = "%%"
	endpointVerbCountConstant               = 2
)

// ErrCurlExecutorNotConfigured indicates the curl executor dependency was missing.
var ErrCurlExecutorNotConfigured = errors.New(curlExecutorMissingMessageConstant)

// ErrEndpointTemplateInvalid indicates an endpoint template that cannot render the image and the token.
var ErrEndpointTemplateInvalid = errors.New(endpointInvalidMessageConstant)

// Request addresses one trigger delivery.
type Request struct {
	Image   string
	Token   string
	Payload Payload
}

// BuildTrigger delivers trigger requests to the build service.
type BuildTrigger interface {
	Send(executionContext context.Context, request Request) (string, error)
}

// CurlBuildTrigger posts trigger requests with curl. The token never appears in logs.
type CurlBuildTrigger struct {
	executor         shared.CurlExecutor
	endpointTemplate string
}

// NewCurlBuildTrigger constructs a trigger posting to endpointTemplate, which receives the image and the token.
func NewCurlBuildTrigger(executor shared.CurlExecutor, endpointTemplate string) (*CurlBuildTrigger, error) {
	if executor == nil {
		return nil, ErrCurlExecutorNotConfigured
	}
	endpointTemplate = strings.TrimSpace(endpointTemplate)
	if len(endpointTemplate) == 0 {
		endpointTemplate = DefaultEndpointTemplate
	}
	if validationError := ValidateEndpointTemplate(endpointTemplate); validationError != nil {
		return nil, validationError
	}
	return &CurlBuildTrigger{executor: executor, endpointTemplate: endpointTemplate}, nil
}

// ValidateEndpointTemplate accepts templates with exactly two %s verbs; a literal percent sign is written %%.
func ValidateEndpointTemplate(endpointTemplate string) error {
	unescaped := strings.ReplaceAll(endpointTemplate, endpointEscapedPercentConstant, "")
	verbCount := strings.Count(unescaped, endpointVerbConstant)
	if verbCount != endpointVerbCountConstant || strings.Count(unescaped, endpointPercentConstant) != verbCount {
		return fmt.Errorf(endpointTemplateInvalidTemplateConstant, ErrEndpointTemplateInvalid, endpointTemplate)
	}
	return nil
}

// EndpointURL renders the trigger URL for the image and token.
func (trigger *CurlBuildTrigger) EndpointURL(image string, token string) string {
	return fmt.Sprintf(trigger.endpointTemplate, image, token)
}

// Send posts the payload and returns the response body.
func (trigger *CurlBuildTrigger) Send(executionContext context.Context, request Request) (string, error) {
	body, encodeError := request.Payload.Encode()
	if encodeError != nil {
		return "", encodeError
	}

	result, executionError := trigger.executor.ExecuteCurl(executionContext, execshell.CommandDetails{
		Arguments: []string{
			curlSilentFlagConstant,
			curlShowErrorFlagConstant,
			curlFailFlagConstant,
			curlHeaderFlagConstant, curlJSONContentTypeHeaderConstant,
			curlDataFlagConstant, body,
			curlMethodFlagConstant, curlPostMethodConstant,
			trigger.EndpointURL(request.Image, request.Token),
		},
		SecretValues: []string{request.Token},
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(result.StandardOutput), nil
}
