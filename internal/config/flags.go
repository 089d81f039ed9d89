package config

import (
	"time"

	"github.com/spf13/pflag"
)

// FlagValues holds the destinations of the configuration flags registered
// on a command's flag set.
type FlagValues struct {
	jsonConfigPath string
	databaseDSN    string
	jarPath        string
	jarFormat      string
	baseURL        string
	gistFileName   string
	requestTimeout time.Duration
	iterations     int
	syncInterval   time.Duration
	watch          bool
	noKeyring      bool
	logPath        string
	logLevel       string
}

// RegisterFlags registers every configuration flag on fs.
//
// Flags:
//
//	-c/--config       json file path with configs
//	-d/--db           settings database path
//	-j/--jar          cookie jar file
//	--jar-format      netscape, firefox or auto
//	--api-url         GitHub REST API root
//	--gist-file       file name inside the gist
//	--request-timeout request timeout (e.g., "30s", "1m")
//	--iterations      PBKDF2 iterations for new envelopes
//	--interval        daemon auto-sync interval (e.g., "30m")
//	--watch           push when the jar file changes
//	--no-keyring      keep the token in the settings database
//	--log-file        log file path, "-" for stderr
//	--log-level       debug, info, warn, error
func RegisterFlags(fs *pflag.FlagSet) *FlagValues {
	fv := &FlagValues{}

	fs.StringVarP(&fv.jsonConfigPath, "config", "c", "", "JSON config file path")
	fs.StringVarP(&fv.databaseDSN, "db", "d", "", "Settings database path")
	fs.StringVarP(&fv.jarPath, "jar", "j", "", "Cookie jar file (cookies.txt or cookies.sqlite)")
	fs.StringVar(&fv.jarFormat, "jar-format", "", "Cookie jar format: netscape, firefox or auto")
	fs.StringVar(&fv.baseURL, "api-url", "", "GitHub REST API root")
	fs.StringVar(&fv.gistFileName, "gist-file", "", "File name inside the gist")
	fs.DurationVar(&fv.requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.IntVar(&fv.iterations, "iterations", 0, "PBKDF2 iterations for new envelopes")
	fs.DurationVar(&fv.syncInterval, "interval", 0, "Daemon auto-sync interval (e.g., 30m)")
	fs.BoolVar(&fv.watch, "watch", false, "Push when the cookie jar changes")
	fs.BoolVar(&fv.noKeyring, "no-keyring", false, "Store the token in the settings database")
	fs.StringVar(&fv.logPath, "log-file", "", "Log file path, - for stderr")
	fs.StringVar(&fv.logLevel, "log-level", "", "Log level")

	return fv
}

func (fv *FlagValues) config() *StructuredConfig {
	return &StructuredConfig{
		Remote: Remote{
			BaseURL:        fv.baseURL,
			FileName:       fv.gistFileName,
			RequestTimeout: fv.requestTimeout,
		},
		Storage: Storage{
			DB:        DB{DSN: fv.databaseDSN},
			NoKeyring: fv.noKeyring,
		},
		Cookies: Cookies{
			JarPath: fv.jarPath,
			Format:  fv.jarFormat,
		},
		Crypto: Crypto{Iterations: fv.iterations},
		Workers: Workers{
			SyncInterval: fv.syncInterval,
			Watch:        fv.watch,
		},
		Log: Log{
			Path:  fv.logPath,
			Level: fv.logLevel,
		},
		JSONFilePath: fv.jsonConfigPath,
	}
}
