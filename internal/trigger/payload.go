package trigger

import (
	"encoding/json"
	"strings"
)

const (
	branchSourceTypeConstant  = "Branch"
	imageNamespaceSeparator   = "/"
	allBranchesLabelConstant  = "all branches"
	branchLabelPrefixConstant = "branch "
)

// Payload is the JSON body of one trigger request.
type Payload struct {
	Build      bool   `json:"build,omitempty"`
	SourceType string `json:"source_type,omitempty"`
	SourceName string `json:"source_name,omitempty"`
}

// BuildAllPayload requests a rebuild of every configured build.
func BuildAllPayload() Payload {
	return Payload{Build: true}
}

// BuildBranchPayload requests a rebuild of the build tied to branchName.
func BuildBranchPayload(branchName string) Payload {
	return Payload{SourceType: branchSourceTypeConstant, SourceName: branchName}
}

// Encode renders the payload as JSON.
func (payload Payload) Encode() (string, error) {
	encoded, encodeError := json.Marshal(payload)
	if encodeError != nil {
		return "", encodeError
	}
	return string(encoded), nil
}

// Label describes the payload target for operator output.
func (payload Payload) Label() string {
	if payload.Build {
		return allBranchesLabelConstant
	}
	return branchLabelPrefixConstant + payload.SourceName
}

// ValidImageName reports whether image names a namespaced repository such as "coqorg/coq".
func ValidImageName(image string) bool {
	trimmed := strings.TrimSpace(image)
	return len(trimmed) > 0 && strings.Contains(trimmed, imageNamespaceSeparator)
}
