package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bnema/lootfilter/internal/blockgroup"
	"github.com/bnema/lootfilter/internal/exporter"
	"github.com/bnema/lootfilter/internal/logging"
	"github.com/bnema/lootfilter/internal/models"
	"github.com/bnema/lootfilter/internal/palette"
	"github.com/bnema/lootfilter/internal/source"
	"github.com/bnema/lootfilter/internal/translator"
)

var (
	cfgFile string
	cfg     models.Config
	fs      = afero.NewOsFs()
	json    = jsoniter.ConfigCompatibleWithStandardLibrary
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lootfilter",
	Short: "Parse, inspect and rewrite item filter scripts",
	Long: `A tool that translates item filter scripts to a structured model,
maintains their block group hierarchy and renders them back to text.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.ConfigureLogger(cfg.Logging)
	},
}

var formatCmd = &cobra.Command{
	Use:   "format <script>",
	Short: "Parse a script and render it back",
	Args:  cobra.ExactArgs(1),
	RunE:  runFormat,
}

var groupsCmd = &cobra.Command{
	Use:   "groups <script>",
	Short: "Print the block group hierarchy of a script",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroups,
}

var statsCmd = &cobra.Command{
	Use:   "stats [script...]",
	Short: "Show translation statistics (all enabled scripts by default)",
	RunE:  runStats,
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <script>",
	Short: "Enable, disable, show or hide every block of a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runToggle,
}

var exportCmd = &cobra.Command{
	Use:   "export <script>",
	Short: "Export blocks and groups as JSON",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured scripts",
	RunE:  runList,
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	RunE:  runInit,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ./configs/lootfilter.toml)")

	formatCmd.Flags().StringP("output", "o", "", "write to this path instead of stdout")
	formatCmd.Flags().BoolP("write", "w", false, "rewrite the script in place")
	formatCmd.Flags().Bool("reindent", false, "reindent every block with the configured indent")

	groupsCmd.Flags().Bool("advanced", true, "include advanced groups")

	statsCmd.Flags().Bool("verbose", false, "verbose output")

	toggleCmd.Flags().StringP("group", "g", "", `group path, e.g. "Currency > High Value"`)
	toggleCmd.Flags().Bool("enable", false, "enable the group's blocks")
	toggleCmd.Flags().Bool("disable", false, "disable the group's blocks")
	toggleCmd.Flags().Bool("show", false, "switch the group's blocks to Show")
	toggleCmd.Flags().Bool("hide", false, "switch the group's blocks to Hide")
	toggleCmd.Flags().StringP("output", "o", "", "write to this path instead of the script")

	exportCmd.Flags().StringP("output", "o", "./output", "output directory")
	exportCmd.Flags().Int("max-blocks-per-file", exporter.MaxRecordsPerFile, "split block records into files of this size")

	rootCmd.AddCommand(formatCmd, groupsCmd, statsCmd, toggleCmd, exportCmd, listCmd, initCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lootfilter")
		viper.SetConfigType("toml")
		viper.AddConfigPath("./configs")
		viper.AddConfigPath(".")
	}

	// Set defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.output", "console")
	viper.SetDefault("fetch.timeout", "30s")
	viper.SetDefault("fetch.retries", 3)
	viper.SetDefault("translator.indent", models.DefaultIndent)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
		}
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error parsing config: %v\n", err)
	}
}

// resolve maps a configured script name to its path
func resolve(arg string) string {
	if entry, ok := cfg.Script(arg); ok {
		return entry.Path
	}
	return arg
}

func loadPalette() (*palette.Palette, error) {
	p, err := palette.FromMap(cfg.Palette)
	if err != nil {
		return nil, err
	}
	if cfg.Translator.PaletteFile == "" {
		return p, nil
	}

	f, err := fs.Open(cfg.Translator.PaletteFile)
	if err != nil {
		return nil, fmt.Errorf("open palette file: %w", err)
	}
	defer f.Close()

	theme, err := palette.LoadYAML(f)
	if err != nil {
		return nil, err
	}
	p.Merge(theme)
	return p, nil
}

func newTranslator() (*translator.ScriptTranslator, error) {
	p, err := loadPalette()
	if err != nil {
		return nil, err
	}
	return translator.NewScriptTranslator(
		translator.WithPalette(p),
		translator.WithIndent(cfg.Translator.Indent),
		translator.WithLogger(log.Logger),
	), nil
}

func loadScript(ctx context.Context, st *translator.ScriptTranslator, name string) (*models.Script, error) {
	src := source.New(fs, cfg.Fetch)
	text, err := src.Read(ctx, name)
	if err != nil {
		return nil, err
	}

	script, err := st.TranslateStringToScript(text)
	if err != nil {
		logging.LogError(log.Logger, err, "failed to translate script")
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return script, nil
}

func writeScript(ctx context.Context, st *translator.ScriptTranslator, script *models.Script, out string) error {
	text, err := st.TranslateScriptToString(script)
	if err != nil {
		return err
	}
	if out == "" {
		_, err := fmt.Print(text)
		return err
	}
	return source.New(fs, cfg.Fetch).Write(ctx, out, text)
}

func runFormat(cmd *cobra.Command, args []string) error {
	output, _ := cmd.Flags().GetString("output")
	write, _ := cmd.Flags().GetBool("write")
	reindent, _ := cmd.Flags().GetBool("reindent")

	ctx := cmd.Context()
	name := resolve(args[0])

	st, err := newTranslator()
	if err != nil {
		return err
	}
	script, err := loadScript(ctx, st, name)
	if err != nil {
		return err
	}

	if reindent {
		for _, b := range script.Blocks {
			b.Indent = cfg.Translator.Indent
		}
	}
	if write {
		output = name
	}
	return writeScript(ctx, st, script, output)
}

func runGroups(cmd *cobra.Command, args []string) error {
	advanced, _ := cmd.Flags().GetBool("advanced")

	st, err := newTranslator()
	if err != nil {
		return err
	}
	script, err := loadScript(cmd.Context(), st, resolve(args[0]))
	if err != nil {
		return err
	}

	skipBelow := -1
	script.Groups.Walk(func(id blockgroup.GroupID, g blockgroup.Group, depth int) {
		if id == blockgroup.RootID {
			return
		}
		if skipBelow >= 0 && depth > skipBelow {
			return
		}
		skipBelow = -1
		if g.Advanced && !advanced {
			skipBelow = depth
			return
		}
		fmt.Printf("%s%s %s %s (%d blocks)\n",
			strings.Repeat("  ", depth-1), checkbox(g.Enabled), checkbox(g.Show),
			g.Segment(), len(script.BlocksInGroup(id)))
	})
	return nil
}

func checkbox(s blockgroup.CheckState) string {
	switch s {
	case blockgroup.Checked:
		return "[x]"
	case blockgroup.Indeterminate:
		return "[~]"
	}
	return "[ ]"
}

func runStats(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")

	names := args
	if len(names) == 0 {
		for _, s := range cfg.EnabledScripts() {
			names = append(names, s.Path)
		}
	}
	if len(names) == 0 {
		return fmt.Errorf("no scripts given and no enabled scripts found in config")
	}

	st, err := newTranslator()
	if err != nil {
		return err
	}

	failed := 0
	for _, arg := range names {
		name := resolve(arg)
		fmt.Printf("\n  Processing %s...\n", name)

		start := time.Now()
		before := st.Stats()
		if _, err := loadScript(cmd.Context(), st, name); err != nil {
			fmt.Printf("    ERROR: %v\n", err)
			failed++
			continue
		}
		after := st.Stats()

		fmt.Printf("    Blocks: %s (%s hidden, %s disabled) in %s\n",
			humanize.Comma(int64(after.Blocks-before.Blocks)),
			humanize.Comma(int64(after.Hidden-before.Hidden)),
			humanize.Comma(int64(after.Disabled-before.Disabled)),
			time.Since(start).Round(time.Millisecond))
		if verbose {
			fmt.Printf("    Items: %s, groups: %s, invalid values: %d, unknown lines: %d\n",
				humanize.Comma(int64(after.Items-before.Items)),
				humanize.Comma(int64(after.Groups-before.Groups)),
				after.InvalidItems-before.InvalidItems,
				after.UnknownLines-before.UnknownLines)
		}
	}

	total := st.Stats()
	if len(total.UnknownKeywords) > 0 {
		fmt.Printf("\nUnknown keywords summary:\n")
		keywords := make([]string, 0, len(total.UnknownKeywords))
		for kw := range total.UnknownKeywords {
			keywords = append(keywords, kw)
		}
		sort.Strings(keywords)
		for _, kw := range keywords {
			count := total.UnknownKeywords[kw]
			if s := translator.Suggest(kw); s != "" {
				fmt.Printf("  %s: %d (did you mean %s?)\n", kw, count, s)
				continue
			}
			fmt.Printf("  %s: %d\n", kw, count)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scripts failed to translate", failed, len(names))
	}
	fmt.Println("\nDone!")
	return nil
}

func runToggle(cmd *cobra.Command, args []string) error {
	groupPath, _ := cmd.Flags().GetString("group")
	enable, _ := cmd.Flags().GetBool("enable")
	disable, _ := cmd.Flags().GetBool("disable")
	show, _ := cmd.Flags().GetBool("show")
	hide, _ := cmd.Flags().GetBool("hide")
	output, _ := cmd.Flags().GetString("output")

	if groupPath == "" {
		return fmt.Errorf("--group is required")
	}
	if enable == disable && show == hide {
		return fmt.Errorf("one of --enable, --disable, --show or --hide is required")
	}

	ctx := cmd.Context()
	name := resolve(args[0])
	st, err := newTranslator()
	if err != nil {
		return err
	}
	script, err := loadScript(ctx, st, name)
	if err != nil {
		return err
	}

	id, ok := script.Groups.Find(strings.Split(groupPath, ">"))
	if !ok {
		return fmt.Errorf("group %q not found", groupPath)
	}
	if enable != disable {
		if err := script.SetGroupEnabled(id, enable); err != nil {
			return err
		}
	}
	if show != hide {
		if err := script.SetGroupShow(id, show); err != nil {
			return err
		}
	}

	log.Info().Str("group", groupPath).Int("blocks", len(script.BlocksInGroup(id))).Msg("group updated")

	if output == "" {
		output = name
	}
	return writeScript(ctx, st, script, output)
}

func runExport(cmd *cobra.Command, args []string) error {
	outputDir, _ := cmd.Flags().GetString("output")
	maxPerFile, _ := cmd.Flags().GetInt("max-blocks-per-file")

	name := resolve(args[0])
	st, err := newTranslator()
	if err != nil {
		return err
	}
	script, err := loadScript(cmd.Context(), st, name)
	if err != nil {
		return err
	}

	e := exporter.New()
	records := e.Export(script)
	shadowed := e.Shadowed(script)
	for idx, first := range shadowed {
		log.Warn().Int("block", idx).Int("shadowed_by", first).Msg("block can never apply")
	}

	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var files []string
	for _, part := range exporter.NewSplitter(maxPerFile).Split(records, base) {
		if err := writeJSON(outputDir, part.Name+".json", part.Records); err != nil {
			return err
		}
		files = append(files, part.Name+".json")
	}
	if err := writeJSON(outputDir, base+"-groups.json", e.ExportGroups(script)); err != nil {
		return err
	}

	stats := e.Stats()
	manifest := Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Source:      name,
		Blocks:      stats.Exported,
		Shadowed:    stats.Shadowed,
		Invalid:     stats.Invalid,
		Files:       files,
	}
	if err := writeJSON(outputDir, base+"-manifest.json", manifest); err != nil {
		return err
	}

	fmt.Printf("Exported %s blocks to %s\n", humanize.Comma(int64(stats.Exported)), outputDir)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	fmt.Println("Configured scripts:")
	fmt.Println()
	for _, s := range cfg.Scripts {
		status := "enabled"
		if !s.Enabled {
			status = "disabled"
		}
		fmt.Printf("  [%s] %s\n", status, s.Name)
		fmt.Printf("         %s\n\n", s.Path)
	}
	return nil
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath := "./configs/lootfilter.toml"
	if cfgFile != "" {
		configPath = cfgFile
	}

	if _, err := fs.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}

	defaultConfig := `# Item filter translator configuration

[logging]
level = "info"
output = "console" # console, json or file
file = "lootfilter.log"

# Settings for scripts read over http(s)
[fetch]
timeout = "30s"
retries = 3

[translator]
indent = "    "
# palette_file = "./configs/theme.yaml"

# Colors usable as SetTextColor @Name
[palette]
currency = "#aa9e82"
unique = "#af6025"
divination = "#0ebaff"

[[scripts]]
name = "main"
path = "./filters/main.filter"
enabled = true
`

	if err := fs.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, configPath, []byte(defaultConfig), 0644); err != nil {
		return err
	}

	fmt.Printf("Created config file: %s\n", configPath)
	return nil
}

func writeJSON(dir, filename string, data any) error {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	f, err := fs.Create(filepath.Join(dir, filename))
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Manifest contains metadata about an export
type Manifest struct {
	GeneratedAt string   `json:"generated_at"`
	Source      string   `json:"source"`
	Blocks      int      `json:"blocks"`
	Shadowed    int      `json:"shadowed"`
	Invalid     int      `json:"invalid"`
	Files       []string `json:"files"`
}
