package conf

import "google.golang.org/protobuf/types/known/durationpb"

// Bootstrap is the root configuration of the service.
type Bootstrap struct {
	Server     *Server
	Data       *Data
	Property   *Property
	Scoring    *Scoring
	Notify     *Notify
	Resilience *Resilience
	Jobs       *Jobs
	Log        *Log
}

// Server holds transport configuration.
type Server struct {
	Http *Server_HTTP
}

// Server_HTTP configures the HTTP listener.
type Server_HTTP struct {
	Network string
	Addr    string
	Timeout *durationpb.Duration
}

// Data holds persistence configuration.
type Data struct {
	Database *Data_Database
	Redis    *Data_Redis
}

// Data_Database configures the MySQL connection.
type Data_Database struct {
	Driver string
	Source string
}

// Data_Redis configures the Redis connection.
type Data_Redis struct {
	Network      string
	Addr         string
	ReadTimeout  *durationpb.Duration
	WriteTimeout *durationpb.Duration
}

// Property configures the remote property service client.
type Property struct {
	BaseUrl  string
	Timeout  *durationpb.Duration
	CacheTtl *durationpb.Duration
}

// Scoring configures the remote tenant scoring model client.
type Scoring struct {
	BaseUrl string
	Timeout *durationpb.Duration
}

// Notify configures the notification dispatcher.
type Notify struct {
	WebhookUrl string
	QueueSize  int32
	Workers    int32
	Timeout    *durationpb.Duration
}

// Resilience holds the circuit breaker tuning applied to each remote
// dependency. Every dependency gets its own breaker instance built from
// these values.
type Resilience struct {
	WindowSize       int32
	MinimumCalls     int32
	FailureThreshold float64
	WaitDuration     *durationpb.Duration
	HalfOpenPermits  int32
}

// Jobs configures background maintenance jobs.
type Jobs struct {
	RetentionMaxAge *durationpb.Duration
}

// Log configures the Zap logger.
type Log struct {
	Level      string
	Format     string
	Env        string
	OutputFile string
}
