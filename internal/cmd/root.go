package cmd

import (
	"os"
	"strings"

	configcmd "github.com/Iron-Ham/contractlens/internal/cmd/config"
	"github.com/Iron-Ham/contractlens/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var rootCmd = &cobra.Command{
	Use:   "contractlens [file]",
	Short: "Analyze contracts for risky clauses from the terminal",
	Long: `contractlens uploads a contract (PDF, DOCX or TXT) to the contract
analysis service and shows its risk score, flagged risks, recommendations
and a clause-by-clause breakdown.

Without a subcommand an interactive terminal UI is started. Pass a file to
have it selected on startup. Use 'contractlens analyze' and
'contractlens export' for scripting.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         runRoot,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.config/contractlens/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", "", "analysis API root, e.g. http://localhost:5000/api")
	rootCmd.PersistentFlags().String("log-level", "", "log level (debug, info, warn, error)")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	configcmd.Register(rootCmd)
}

func initConfig() {
	// .env is loaded before viper reads the environment
	config.LoadDotEnv()

	// Set defaults first so they're available even without a config file
	config.SetDefaults()

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(config.ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("CONTRACTLENS")
	// Replace dots with underscores for nested keys in env vars
	// e.g., CONTRACTLENS_API_BASE_URL for api.base_url
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file if it exists (ignore error if not found)
	_ = viper.ReadInConfig()
}

func runRoot(cmd *cobra.Command, args []string) error {
	if !isTerminal() {
		// Nothing interactive to do when piped; point at the headless commands.
		return cmd.Help()
	}
	path := ""
	if len(args) == 1 {
		path = args[0]
	}
	return runTUI(path)
}

// isTerminal reports whether stdin and stdout are both attached to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
