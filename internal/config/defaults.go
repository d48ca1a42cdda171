package config

const (
	defaultStagingDir           = "~/.local/share/stagehand/staging"
	defaultLogDir               = "~/.local/share/stagehand/logs"
	defaultRemoteSeparator      = "/"
	defaultRemoteTimeoutSeconds = 300
	defaultCleanupPolicy        = "if-job-succeeded"
	defaultAction               = "remote_transfer"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Remote: Remote{
			Separator:      defaultRemoteSeparator,
			TimeoutSeconds: defaultRemoteTimeoutSeconds,
		},
		Harvest: Harvest{
			CleanupPolicy: defaultCleanupPolicy,
			DefaultAction: defaultAction,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
