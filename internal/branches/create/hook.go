package create

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"text/template"

	"github.com/spf13/afero"
)

const (
	defaultHookCommitMessageConstant      = "Bump {{.BranchName}}"
	hookFileSystemMissingMessageConstant  = "hook filesystem not configured"
	hookPatternMismatchTemplateConstant   = "hook pattern %q does not match %s"
	hookPatternInvalidTemplateConstant    = "invalid hook pattern: %w"
	hookTemplateInvalidTemplateConstant   = "invalid hook template %q: %w"
	hookReadFailureTemplateConstant       = "read hook file %s: %w"
	hookWriteFailureTemplateConstant      = "write hook file %s: %w"
	hookReplacementTemplateNameConstant   = "replacement"
	hookCommitMessageTemplateNameConstant = "commit_message"
)

var hookTemplateFunctions = template.FuncMap{
	"trimPrefix": strings.TrimPrefix,
	"trimSuffix": strings.TrimSuffix,
}

// ErrHookFileSystemNotConfigured indicates the hook was run without a filesystem.
var ErrHookFileSystemNotConfigured = errors.New(hookFileSystemMissingMessageConstant)

// HookData is the template input for the replacement and the commit message.
type HookData struct {
	BranchName     string
	BaseBranch     string
	RepositoryPath string
}

// HookPatternMismatchError reports a hook whose pattern matched nothing in its file.
type HookPatternMismatchError struct {
	Pattern  string
	FilePath string
}

// Error describes the mismatch.
func (mismatchError HookPatternMismatchError) Error() string {
	return fmt.Sprintf(hookPatternMismatchTemplateConstant, mismatchError.Pattern, mismatchError.FilePath)
}

// HookResult describes the edit the hook performed.
type HookResult struct {
	FilePath      string
	Changed       bool
	CommitMessage string
}

// FileEditHook rewrites a tracked file with a regular expression.
type FileEditHook struct {
	fileSystem afero.Fs
}

// NewFileEditHook constructs a hook operating on the provided filesystem.
func NewFileEditHook(fileSystem afero.Fs) (*FileEditHook, error) {
	if fileSystem == nil {
		return nil, ErrHookFileSystemNotConfigured
	}
	return &FileEditHook{fileSystem: fileSystem}, nil
}

// Apply replaces every match of the configured pattern and writes the file back with its original mode.
// The replacement is rendered as a template first; the result may still reference capture groups ($1).
func (hook *FileEditHook) Apply(configuration HookConfiguration, data HookData) (HookResult, error) {
	filePath := configuration.File
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(data.RepositoryPath, filePath)
	}

	expression, compileError := regexp.Compile(configuration.Pattern)
	if compileError != nil {
		return HookResult{}, fmt.Errorf(hookPatternInvalidTemplateConstant, compileError)
	}

	replacement, replacementError := renderHookTemplate(hookReplacementTemplateNameConstant, configuration.Replacement, data)
	if replacementError != nil {
		return HookResult{}, replacementError
	}
	commitMessage, messageError := renderHookTemplate(hookCommitMessageTemplateNameConstant, configuration.CommitMessage, data)
	if messageError != nil {
		return HookResult{}, messageError
	}

	fileInfo, statError := hook.fileSystem.Stat(filePath)
	if statError != nil {
		return HookResult{}, fmt.Errorf(hookReadFailureTemplateConstant, filePath, statError)
	}
	original, readError := afero.ReadFile(hook.fileSystem, filePath)
	if readError != nil {
		return HookResult{}, fmt.Errorf(hookReadFailureTemplateConstant, filePath, readError)
	}

	if !expression.Match(original) {
		return HookResult{}, HookPatternMismatchError{Pattern: configuration.Pattern, FilePath: filePath}
	}

	updated := expression.ReplaceAll(original, []byte(replacement))
	result := HookResult{FilePath: filePath, CommitMessage: commitMessage}
	if bytes.Equal(original, updated) {
		return result, nil
	}

	if writeError := afero.WriteFile(hook.fileSystem, filePath, updated, fileInfo.Mode().Perm()); writeError != nil {
		return HookResult{}, fmt.Errorf(hookWriteFailureTemplateConstant, filePath, writeError)
	}
	result.Changed = true
	return result, nil
}

func renderHookTemplate(name string, text string, data HookData) (string, error) {
	parsed, parseError := template.New(name).Funcs(hookTemplateFunctions).Option("missingkey=error").Parse(text)
	if parseError != nil {
		return "", fmt.Errorf(hookTemplateInvalidTemplateConstant, name, parseError)
	}
	var rendered bytes.Buffer
	if executeError := parsed.Execute(&rendered, data); executeError != nil {
		return "", fmt.Errorf(hookTemplateInvalidTemplateConstant, name, executeError)
	}
	return rendered.String(), nil
}
