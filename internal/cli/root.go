package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"resident-lockdown/internal/config"
)

const defaultConfigPath = "config/config.yaml"

type options struct {
	port       string
	configPath string
	adminToken string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	v := viper.New()
	v.SetEnvPrefix("LOCKDOWN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:          "lockdown",
		Short:        "Resident Lockdown: a real-time elimination quiz over websockets",
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	flags.StringVar(&opts.port, "port", "", "port to listen on (env: LOCKDOWN_PORT)")
	flags.StringVar(&opts.configPath, "config", defaultConfigPath, "path to YAML config (env: LOCKDOWN_CONFIG)")
	flags.StringVar(&opts.adminToken, "admin-token", "", "admin panel token (env: LOCKDOWN_ADMIN_TOKEN)")

	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = flags.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.AddCommand(NewStartCmd(opts))
	cmd.AddCommand(NewMigrateCmd(opts))
	return cmd
}

// load reads the config file and applies flag and env overrides. A missing file at the
// default path falls back to built-in defaults.
func (o *options) load() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || o.configPath != defaultConfigPath {
			return cfg, fmt.Errorf("load config: %w", err)
		}
		log.Printf("config %s not found, using defaults", o.configPath)
		cfg = config.Default()
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.adminToken != "" {
		cfg.Admin.Token = o.adminToken
	}
	return cfg, nil
}
