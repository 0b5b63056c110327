package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	Turso         TursoConfig
	Slack         SlackConfig
	PubSub        PubSubConfig
}

// TursoConfig holds the connection details for a remote Turso/libSQL database.
// Both fields empty means a local SQLite file is used instead.
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// SlackConfig holds the Slack bot credentials. An empty token disables
// notifications.
type SlackConfig struct {
	Token     string
	ChannelID string
}

// PubSubConfig holds the GCP project and topic used to fan out replay
// triggers. An empty project ID means replays run in-process instead.
type PubSubConfig struct {
	ProjectID   string
	ReplayTopic string
}
