package trigger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"

	repoerrors "github.com/temirov/hubkeeper/internal/repos/errors"
)

const (
	buildTriggerMissingMessageConstant = "build trigger not configured"
	missingImageMessageConstant        = "missing image argument"
	missingTokenMessageConstant        = "missing token argument"
	invalidImageTemplateConstant       = "image %q should contain a slash \"/\""
	missingSelectionMessageConstant    = "trigger requires --all or at least one -b/--branch"
	deliveryFailureTemplateConstant    = "trigger %s: %w"
)

// ErrBuildTriggerNotConfigured indicates the build trigger dependency was missing.
var ErrBuildTriggerNotConfigured = errors.New(buildTriggerMissingMessageConstant)

// Dependencies enumerates collaborators required to trigger builds.
type Dependencies struct {
	Trigger BuildTrigger
}

// Options configures one trigger run.
type Options struct {
	Image    string
	Token    string
	All      bool
	Branches []string
}

// Delivery records one accepted request.
type Delivery struct {
	Payload  Payload
	Response string
}

// Result lists the accepted requests in the order they were sent.
type Result struct {
	Deliveries []Delivery
}

// Service sends build trigger requests.
type Service struct {
	trigger BuildTrigger
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies Dependencies) (*Service, error) {
	if dependencies.Trigger == nil {
		return nil, ErrBuildTriggerNotConfigured
	}
	return &Service{trigger: dependencies.Trigger}, nil
}

// Payloads validates the options and returns the requests a run would send.
// Validation failures are UsageError values.
func Payloads(options Options) ([]Payload, error) {
	image := strings.TrimSpace(options.Image)
	switch {
	case len(image) == 0:
		return nil, repoerrors.NewUsageError(missingImageMessageConstant)
	case len(strings.TrimSpace(options.Token)) == 0:
		return nil, repoerrors.NewUsageError(missingTokenMessageConstant)
	case !ValidImageName(image):
		return nil, repoerrors.NewUsageError(fmt.Sprintf(invalidImageTemplateConstant, image))
	}

	if options.All {
		return []Payload{BuildAllPayload()}, nil
	}

	payloads := make([]Payload, 0, len(options.Branches))
	for _, branchName := range options.Branches {
		trimmed := strings.TrimSpace(branchName)
		if len(trimmed) == 0 {
			continue
		}
		payloads = append(payloads, BuildBranchPayload(trimmed))
	}
	if len(payloads) == 0 {
		return nil, repoerrors.NewUsageError(missingSelectionMessageConstant)
	}
	return payloads, nil
}

// Trigger sends one request for --all or one per branch in the given order.
// Every request is attempted; failures are combined into the returned error.
func (service *Service) Trigger(executionContext context.Context, options Options) (Result, error) {
	payloads, validationError := Payloads(options)
	if validationError != nil {
		return Result{}, validationError
	}

	image := strings.TrimSpace(options.Image)
	token := strings.TrimSpace(options.Token)

	var result Result
	var combinedError error
	for _, payload := range payloads {
		response, sendError := service.trigger.Send(executionContext, Request{Image: image, Token: token, Payload: payload})
		if sendError != nil {
			combinedError = multierr.Append(combinedError, fmt.Errorf(deliveryFailureTemplateConstant, payload.Label(), sendError))
			continue
		}
		result.Deliveries = append(result.Deliveries, Delivery{Payload: payload, Response: response})
	}
	return result, combinedError
}
