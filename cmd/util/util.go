package util

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ValentinKolb/csav/lib/common"
	"github.com/ValentinKolb/csav/lib/csav"
	"github.com/ValentinKolb/csav/lib/nodetree"
	"github.com/ValentinKolb/csav/lib/object"
	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

var plog = logger.GetLogger("cli")

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupGlobalFlags adds the flags shared by all commands
func SetupGlobalFlags(cmd *cobra.Command) {
	def := common.DefaultConfig()

	key := "log-level"
	cmd.PersistentFlags().String(key, def.LogLevel, WrapString("Level at which logs are written to stderr (debug, info, warn, error)"))

	key = "color"
	cmd.PersistentFlags().Bool(key, false, WrapString("Force colored output. Without the flag colors are used when stdout is a terminal"))

	key = "format"
	cmd.PersistentFlags().String(key, def.Format, WrapString("Output format (text, yaml)"))

	key = "blueprints"
	cmd.PersistentFlags().String(key, "", WrapString("YAML file with the class blueprints used to decode objects"))

	key = "names-node"
	cmd.PersistentFlags().String(key, def.NamesNode, WrapString("Name of the node holding the name pool of the save"))

	key = "max-depth"
	cmd.PersistentFlags().Int(key, def.MaxDepth, WrapString("Maximum nesting of the node tree"))

	key = "metrics"
	cmd.PersistentFlags().Bool(key, false, WrapString("Print the decoder metrics in Prometheus format when the command finished"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	viper.SetEnvPrefix("csav")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}

// GetConfig reads the configuration from viper
func GetConfig() (*common.Config, error) {
	conf := &common.Config{
		LogLevel:      viper.GetString("log-level"),
		Color:         viper.GetBool("color"),
		Format:        viper.GetString("format"),
		BlueprintFile: viper.GetString("blueprints"),
		NamesNode:     viper.GetString("names-node"),
		MaxDepth:      viper.GetInt("max-depth"),
		Metrics:       viper.GetBool("metrics"),
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

// LoadTree loads the save at path and decodes its node tree
func LoadTree(path string, conf *common.Config) (*csav.File, *nodetree.Tree, error) {
	f, err := csav.Load(path)
	if err != nil {
		return nil, nil, err
	}
	f.MaxDepth = conf.MaxDepth
	t, err := f.Tree()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	plog.Debugf("%s: decoded %d nodes", path, t.Len())
	return f, t, nil
}

// NewObjectContext creates the serialization context for the objects of t:
// the name pool comes from the configured names node, blueprints from the
// configured file.
func NewObjectContext(t *nodetree.Tree, conf *common.Config) (*object.Context, error) {
	names, err := csav.LoadNames(t, conf.NamesNode)
	if err != nil {
		return nil, err
	}
	ctx := object.NewContext(names)
	if conf.BlueprintFile != "" {
		n, err := ctx.Blueprints.LoadYAMLFile(conf.BlueprintFile)
		if err != nil {
			return nil, err
		}
		plog.Infof("loaded %d blueprints from %s", n, conf.BlueprintFile)
	}
	return ctx, nil
}

// UseColor reports whether output written to w is colored
func UseColor(w io.Writer, conf *common.Config) bool {
	if conf.Color {
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

// Colors holds the print functions used for text output
type Colors struct {
	Name  func(format string, a ...interface{}) string
	Blob  func(format string, a ...interface{}) string
	Value func(format string, a ...interface{}) string
	Dim   func(format string, a ...interface{}) string
}

// NewColors returns colored print functions, or plain ones if enabled is false
func NewColors(enabled bool) *Colors {
	if !enabled {
		return &Colors{Name: fmt.Sprintf, Blob: fmt.Sprintf, Value: fmt.Sprintf, Dim: fmt.Sprintf}
	}
	c := &Colors{
		Name:  color.New(color.FgCyan, color.Bold).SprintfFunc(),
		Blob:  color.RGB(96, 96, 96).SprintfFunc(),
		Value: color.GreenString,
		Dim:   color.RGB(128, 168, 196).SprintfFunc(),
	}
	// fatih/color disables itself when stdout is not a terminal
	color.NoColor = false
	return c
}

// EmitYAML writes v as YAML
func EmitYAML(w io.Writer, v interface{}) error {
	out, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
