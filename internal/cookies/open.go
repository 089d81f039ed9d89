package cookies

import (
	"fmt"

	"github.com/MKhiriev/go-cookie-sync/internal/config"
	"github.com/MKhiriev/go-cookie-sync/internal/logger"
	"github.com/spf13/afero"
)

// Open returns the [Store] for the configured jar. With format "auto" the
// file is sniffed by [DetectFormat].
func Open(cfg config.ClientCookies, log *logger.Logger) (Store, error) {
	return open(afero.NewOsFs(), cfg, log)
}

func open(fsys afero.Fs, cfg config.ClientCookies, log *logger.Logger) (Store, error) {
	if cfg.JarPath == "" {
		return nil, ErrNoJarPath
	}

	format := Format(cfg.Format)
	if format == "" || format == FormatAuto {
		detected, err := DetectFormat(fsys, cfg.JarPath)
		if err != nil {
			return nil, fmt.Errorf("detect jar format of %s: %w", cfg.JarPath, err)
		}
		format = detected
	}

	log.Debug().Str("func", "cookies.Open").Str("format", string(format)).Str("path", cfg.JarPath).Msg("opening cookie jar")

	switch format {
	case FormatNetscape:
		return NewNetscapeJar(fsys, cfg.JarPath, log), nil
	case FormatFirefox:
		return NewFirefoxStore(cfg.JarPath, log), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
