package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ppiankov/aletheia/internal/logging"
	"github.com/ppiankov/aletheia/internal/model"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time with -ldflags
var Version = "v0.1.0"

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "aletheia",
	Short: "Aletheia - credibility reports for claims, articles and topics",
	Long: `Aletheia asks an analysis service for a structured credibility report on
a claim, article or topic: author credibility, source reliability, bias and
sentiment, contradicting evidence, manipulation techniques and citations.

Reports describe credibility signals. They are not a verdict on truth.

Run 'aletheia tui' for the interactive terminal interface, or
'aletheia report <query>' for a one-shot report.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number of Aletheia.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("aletheia %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.aletheia/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	flags.String("api-url", "", "analysis service base URL (env: ALETHEIA_API_BASE_URL)")
	flags.String("mode", "", "user mode: normal (reader) or journalist")
	flags.Duration("timeout", 0, "timeout for a single report request (default 5m)")
	flags.Bool("no-cache", false, "disable the trending-articles cache")
	flags.Bool("insecure", false, "skip TLS certificate verification (use for self-signed certs)")
	flags.String("http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	flags.String("https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("api.base_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("api.mode", flags.Lookup("mode"))
	_ = viper.BindPFlag("http.timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("http.insecure_tls", flags.Lookup("insecure"))
	_ = viper.BindPFlag("http.http_proxy", flags.Lookup("http-proxy"))
	_ = viper.BindPFlag("http.https_proxy", flags.Lookup("https-proxy"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	setDefaults(viper.GetViper(), model.DefaultConfig())

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".aletheia"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match ALETHEIA_*, e.g. ALETHEIA_API_BASE_URL
	viper.SetEnvPrefix("ALETHEIA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every config key so env variables and Unmarshal see it
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("api.base_url", d.API.BaseURL)
	v.SetDefault("api.mode", d.API.Mode)
	v.SetDefault("api.article_limit", d.API.ArticleLimit)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.max_body_bytes", d.HTTP.MaxBodyBytes)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", d.HTTP.NoProxy)
	v.SetDefault("http.insecure_tls", d.HTTP.InsecureTLS)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.articles_ttl", d.Cache.ArticlesTTL)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)

	v.SetDefault("rate_limiting.requests_per_second", d.RateLimiting.RequestsPerSecond)
	v.SetDefault("rate_limiting.burst_size", d.RateLimiting.BurstSize)

	v.SetDefault("output.include_footer", d.Output.IncludeFooter)

	v.SetDefault("logging.level", d.Logging.Level)
}

// loadConfig builds the effective configuration: flags > env > file > defaults
func loadConfig(cmd *cobra.Command) (*model.Config, error) {
	return decodeConfig(viper.GetViper(), cmd)
}

func decodeConfig(v *viper.Viper, cmd *cobra.Command) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cmd != nil {
		if f := cmd.Flags().Lookup("no-cache"); f != nil && f.Changed {
			cfg.Cache.Enabled = false
		}
	}

	if _, err := model.ParseUserMode(cfg.API.Mode); err != nil {
		return nil, err
	}
	if cfg.HTTP.Timeout <= 0 {
		cfg.HTTP.Timeout = model.DefaultConfig().HTTP.Timeout
	}
	if cfg.API.ArticleLimit <= 0 || cfg.API.ArticleLimit > model.MaxArticles {
		cfg.API.ArticleLimit = model.MaxArticles
	}

	if v.GetBool("verbose") {
		cfg.Output.Verbose = true
		cfg.Logging.Level = "debug"
	}

	return cfg, nil
}

// userMode returns the configured mode; loadConfig has already validated it
func userMode(cfg *model.Config) model.UserMode {
	mode, _ := model.ParseUserMode(cfg.API.Mode)
	return mode
}

func newLogger(cfg *model.Config) *slog.Logger {
	return logging.New(cfg.Logging.Level)
}
