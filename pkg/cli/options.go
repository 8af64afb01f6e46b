package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/opendrop/pkg/client"
	"github.com/DeBrosOfficial/opendrop/pkg/config"
	"github.com/DeBrosOfficial/opendrop/pkg/errors"
	"github.com/DeBrosOfficial/opendrop/pkg/logging"
)

// Options are the flags shared by every command.
type Options struct {
	ConfigPath  string
	Debug       bool
	Name        string
	Model       string
	Email       []string
	Phone       []string
	Interface   string
	NoInterface bool
	Payload     string
	BinPayload  string
}

func (o *Options) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.ConfigPath, "config", "", "config file (default ~/.opendrop/config.yaml)")
	f.BoolVarP(&o.Debug, "debug", "d", false, "enable debug output")
	f.StringVarP(&o.Name, "name", "n", "", "computer name (displayed in the sharing pane)")
	f.StringVarP(&o.Model, "model", "m", "", "computer model (displayed in the sharing pane)")
	f.StringArrayVarP(&o.Email, "email", "e", nil, "user's email addresses (currently unused)")
	f.StringArrayVarP(&o.Phone, "phone", "p", nil, "user's phone numbers (currently unused)")
	f.StringVarP(&o.Interface, "interface", "i", "", "which AWDL interface to use (default awdl0)")
	f.BoolVarP(&o.NoInterface, "no-interface", "I", false, "do not restrict to an interface")
	f.StringVarP(&o.Payload, "payload", "J", "", "JSON data containing payload to send with ask/discover")
	f.StringVarP(&o.BinPayload, "binpayload", "B", "", "raw payload to send with ask/discover")
}

// env is what a command runs with once flags and config are merged.
type env struct {
	cfg     *config.Config
	logger  *logging.ColoredLogger
	payload client.Payload
	client  *client.Client
}

// load reads the config file, applies flag overrides and builds the logger.
func (o *Options) load() (*env, error) {
	// Missing payload files are usage errors, reported before anything runs.
	for _, p := range []string{o.Payload, o.BinPayload} {
		if p == "" {
			continue
		}
		if info, err := os.Stat(p); err != nil || info.IsDir() {
			return nil, errors.NewValidationError("payload", "custom payload file "+p+" not found", p)
		}
	}

	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, errors.NewValidationError("config", err.Error(), o.ConfigPath)
	}
	o.apply(cfg)

	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, errors.NewValidationError("config", multierr.Combine(errs...).Error(), o.ConfigPath)
	}

	logger, err := logging.New(logging.Options{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputFile: cfg.Logging.OutputFile,
		Colors:     true,
	})
	if err != nil {
		return nil, errors.NewValidationError("logging.output_file", err.Error(), cfg.Logging.OutputFile)
	}

	c, err := client.New(clientConfig(cfg), logger)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:     cfg,
		logger:  logger,
		payload: o.readPayload(logger),
		client:  c,
	}, nil
}

func (o *Options) apply(cfg *config.Config) {
	if o.Debug {
		cfg.Logging.Level = "debug"
	}
	if o.Name != "" {
		cfg.Identity.ComputerName = o.Name
	}
	if o.Model != "" {
		cfg.Identity.ComputerModel = o.Model
	}
	if len(o.Email) > 0 {
		cfg.Identity.Email = o.Email
	}
	if len(o.Phone) > 0 {
		cfg.Identity.Phone = o.Phone
	}
	if o.Interface != "" {
		cfg.Discovery.Interface = o.Interface
	}
	if o.NoInterface {
		cfg.Discovery.Interface = ""
	}
}

// readPayload reads the payload files. A file that cannot be read or parsed
// is logged and ignored.
func (o *Options) readPayload(logger *logging.ColoredLogger) client.Payload {
	var payload client.Payload
	if o.Payload != "" {
		data, err := client.ReadJSONPayload(o.Payload)
		if err != nil {
			logger.ComponentWarn(logging.ComponentCLI, "Unable to read JSON payload", zap.Error(err))
		} else {
			payload.JSON = data
		}
	}
	if o.BinPayload != "" {
		data, err := client.ReadBinaryPayload(o.BinPayload)
		if err != nil {
			logger.ComponentWarn(logging.ComponentCLI, "Unable to read binary payload", zap.Error(err))
		} else {
			payload.Binary = data
		}
	}
	return payload
}

func clientConfig(cfg *config.Config) client.Config {
	return client.Config{
		Scheme:             cfg.Client.Scheme,
		Timeout:            cfg.Client.Timeout,
		InsecureSkipVerify: cfg.Client.InsecureSkipVerify,
		CACertPath:         cfg.Client.CACertPath,
		Interface:          cfg.Discovery.Interface,
		ComputerName:       cfg.Identity.ComputerName,
		ComputerModel:      cfg.Identity.ComputerModel,
	}
}
