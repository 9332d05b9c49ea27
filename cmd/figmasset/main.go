package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"

	"github.com/stamen/figmasset"
	"github.com/stamen/figmasset/pkg/figma"
	"github.com/stamen/figmasset/pkg/mapstore"
)

const version = figma.Version

var (
	figmaURL    string
	fileKey     string
	accessToken string
	frameIDs    string
	frameNames  string
	scales      string
	format      string
	outputFile  string
	exportDir   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "figmasset",
		Short: "Resolve and export map assets from Figma frames",
		Long:  "A tool to resolve multi-scale image URLs for the assets inside Figma frames, and to export them as a statically servable snapshot",
	}

	rootCmd.PersistentFlags().StringVarP(&figmaURL, "url", "u", "", "Figma file URL")
	rootCmd.PersistentFlags().StringVarP(&fileKey, "file-key", "k", "", "Figma file key (alternative to --url)")
	rootCmd.PersistentFlags().StringVarP(&accessToken, "token", "t", os.Getenv("FIGMA_TOKEN"), "Figma Personal Access Token (defaults to $FIGMA_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&frameNames, "frames", "f", "", "Comma-separated frame names to pull assets from")
	rootCmd.PersistentFlags().StringVar(&frameIDs, "frame-ids", "", "Comma-separated frame node IDs to pull assets from")
	rootCmd.PersistentFlags().StringVarP(&scales, "scales", "s", "1", "Comma-separated scale factors (e.g. \"1,2\")")
	rootCmd.PersistentFlags().StringVar(&format, "format", "png", "Image format: png, svg, jpg")

	resolveCmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve asset image URLs and print them as JSON",
		RunE:  runResolve,
	}
	resolveCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write JSON to file instead of stdout")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Download resolved assets and write an assets.json manifest",
		RunE:  runExport,
	}
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", "figma-assets", "Output directory for the snapshot")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("figmasset version %s\n", version)
		},
	}

	rootCmd.AddCommand(resolveCmd, exportCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// buildOptions assembles figmasset.Options from the shared flags.
func buildOptions() (figmasset.Options, error) {
	if accessToken == "" {
		return figmasset.Options{}, fmt.Errorf("a Figma access token is required (--token or $FIGMA_TOKEN)")
	}
	if figmaURL == "" && fileKey == "" {
		return figmasset.Options{}, fmt.Errorf("either --url or --file-key is required")
	}
	if frameNames == "" && frameIDs == "" {
		return figmasset.Options{}, fmt.Errorf("at least one of --frames or --frame-ids is required")
	}

	parsedScales, err := figmasset.ParseScales(scales)
	if err != nil {
		return figmasset.Options{}, err
	}

	return figmasset.Options{
		AccessToken: accessToken,
		FileKey:     fileKey,
		FileURL:     figmaURL,
		FrameIDs:    figmasset.ParseList(frameIDs),
		FrameNames:  figmasset.ParseList(frameNames),
		Scales:      parsedScales,
		Format:      format,
		Logger:      &cliLogger{},
	}, nil
}

func runResolve(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	assets, err := figmasset.Load(cmd.Context(), opts)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return fmt.Errorf("encode assets: %w", err)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, out, 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		color.New(color.FgGreen).Printf("Wrote %d asset(s) to %s\n", len(assets), outputFile)
		return nil
	}

	fmt.Println(string(out))
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions()
	if err != nil {
		return err
	}

	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)

	assets, err := figmasset.Load(cmd.Context(), opts)
	if err != nil {
		return err
	}

	result, err := mapstore.ExportStatic(cmd.Context(), nil, assets, exportDir, format)
	if err != nil {
		return err
	}

	for _, dlErr := range result.Errors {
		yellow.Printf("⚠ %v\n", dlErr)
	}

	green.Printf("Exported %d image(s) and %s to %s\n", len(result.Assets), mapstore.ManifestName, exportDir)
	return nil
}

// cliLogger implements figmasset.Logger with colored terminal output.
type cliLogger struct{}

func (l *cliLogger) Infof(format string, args ...any) {
	color.New(color.FgCyan).Printf(format+"\n", args...)
}

func (l *cliLogger) Warnf(format string, args ...any) {
	color.New(color.FgYellow).Printf("⚠ "+format+"\n", args...)
}

func (l *cliLogger) Errorf(format string, args ...any) {
	color.New(color.FgRed).Printf("✗ "+format+"\n", args...)
}
