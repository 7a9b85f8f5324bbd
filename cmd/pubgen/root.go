package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/eringen/pubgen"
)

// configKeys are the SiteConfig keys read from config.yaml and PUBGEN_*
// environment variables.
var configKeys = []string{
	"title", "description", "author", "siteUrl", "pathPrefix",
	"contentDir", "section", "staticDir", "outputDir", "databasePath",
	"dateFormat", "defaultTheme", "drafts",
	"addr", "sessionSecret", "cookieSecure", "postCacheTTL",
}

// cli carries state shared by every subcommand.
type cli struct {
	cfgFile   string
	verbose   bool
	logFormat string

	config pubgen.SiteConfig
	log    *logrus.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{log: logrus.New()}

	root := &cobra.Command{
		Use:   "pubgen",
		Short: "Static blog generator",
		Long: `pubgen turns a directory of Markdown posts into a static blog with an
index page, one page per post, an RSS feed and a sitemap.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setupLogger(cmd); err != nil {
				return err
			}
			if cmd.Annotations["config"] == "skip" {
				return nil
			}
			return c.loadConfig(cmd.Flags())
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./config.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "log debug output")
	root.PersistentFlags().StringVar(&c.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		c.newBuildCmd(),
		c.newServeCmd(),
		c.newNewCmd(),
		c.newPostCmd(),
		newVersionCmd(),
	)
	return root
}

func (c *cli) setupLogger(cmd *cobra.Command) error {
	c.log.SetOutput(cmd.ErrOrStderr())
	switch c.logFormat {
	case "json":
		c.log.SetFormatter(&logrus.JSONFormatter{})
	case "text", "":
		c.log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	default:
		return fmt.Errorf("unknown log format %q", c.logFormat)
	}
	if c.verbose {
		c.log.SetLevel(logrus.DebugLevel)
	}
	return nil
}

// loadConfig reads config.yaml (or --config), PUBGEN_* environment
// variables and any changed flags that share a config key, in increasing
// priority.
func (c *cli) loadConfig(flags *pflag.FlagSet) error {
	v := viper.New()

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("PUBGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
		if f := flags.Lookup(key); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || c.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
		c.log.Debug("no config file found, using defaults and environment")
	} else {
		c.log.WithField("file", v.ConfigFileUsed()).Debug("using config file")
	}

	var cfg pubgen.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	c.config = cfg
	return nil
}

func (c *cli) site() *pubgen.Site {
	return pubgen.New(c.config, pubgen.WithLogger(c.log))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print the pubgen version",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{"config": "skip"},
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pubgen %s\n", version)
		},
	}
}
