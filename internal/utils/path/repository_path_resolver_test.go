package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/hubkeeper/internal/utils/path"
)

func TestRepositoryPathResolverPrefersFirstNonBlankCandidate(testInstance *testing.T) {
	resolver := pathutils.NewRepositoryPathResolver(
		pathutils.NewHomeExpanderWithProvider(func() (string, error) { return testHomeDirectoryConstant, nil }),
		func() (string, error) { return "", errors.New("unused") },
	)

	resolvedPath, resolveError := resolver.Resolve("  ", "~/docker-coq", "/srv/ignored")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Join(testHomeDirectoryConstant, "docker-coq"), resolvedPath)
}

func TestRepositoryPathResolverFallsBackToInstallationSibling(testInstance *testing.T) {
	installationDirectory := testInstance.TempDir()
	executablePath := filepath.Join(installationDirectory, "bin", "hubkeeper")

	resolver := pathutils.NewRepositoryPathResolver(nil, func() (string, error) { return executablePath, nil })

	resolvedPath, resolveError := resolver.Resolve("", "")
	require.NoError(testInstance, resolveError)
	require.Equal(testInstance, filepath.Join(installationDirectory, pathutils.DefaultRepositoryDirectoryName), resolvedPath)
}

func TestRepositoryPathResolverReportsExecutableLookupFailure(testInstance *testing.T) {
	resolver := pathutils.NewRepositoryPathResolver(nil, func() (string, error) { return "", errors.New("procfs unavailable") })

	_, resolveError := resolver.Resolve()
	require.Error(testInstance, resolveError)
	require.Contains(testInstance, resolveError.Error(), "procfs unavailable")
}
