// Package utils exposes reusable helpers consumed by multiple commands.
//
// It houses the ConfigurationLoader and LoggerFactory abstractions that
// integrate Viper, environment variables, and zap logging for hubkeeper, and
// the CommandContextAccessor that carries per-invocation values such as the
// working repository path.
package utils
