package mockdocker

import (
	"time"

	kitlog "github.com/go-kit/log"
)

type Config struct {
	// Logger receives state transitions at debug level and rejected
	// mutations at info level.
	Logger kitlog.Logger
	// Seed initialises the generator of swarm IDs, join tokens and unlock
	// keys. Equal seeds give equal secrets.
	Seed int64
	// StrictValidation makes New reject fixtures that fail validation.
	StrictValidation bool
}

func DefaultConfig() Config {
	return Config{
		Logger: kitlog.NewNopLogger(),
		Seed:   time.Now().UnixNano(),
	}
}
