package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/xcube/internal/catalog"
	"github.com/mesh-intelligence/xcube/internal/deckfile"
	"github.com/mesh-intelligence/xcube/internal/mtgapi"
	"github.com/mesh-intelligence/xcube/internal/scrape"
	"github.com/mesh-intelligence/xcube/pkg/types"
)

type generateOptions struct {
	url         string
	html        string
	concurrency int
	noCache     bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate FILE",
		Short: "Scrape a cube list and write it as an XMage deck file",
		Long: "Generate scrapes a cube card list article, resolves every card to its oldest\n" +
			"printing and writes the cube to FILE in XMage's deck format.",
		Example: "  xcube generate vintage.dck\n" +
			"  xcube generate legacy.dck --url https://magic.wizards.com/en/articles/archive/legacy-cube-cardlist\n" +
			"  xcube generate vintage.dck --html saved-article.html",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runGenerate(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.url, "url", "u", "", "URL to scrape the cube list from (default: config url)")
	cmd.Flags().StringVar(&opts.html, "html", "", "read the cube list from a saved HTML article instead of fetching it")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", 0, "maximum concurrent card lookups (default: config concurrency)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "ignore the local lookup cache")
	cmd.MarkFlagsMutuallyExclusive("url", "html")

	return cmd
}

func (a *app) runGenerate(cmd *cobra.Command, file string, opts generateOptions) error {
	ctx := cmd.Context()

	// Fail on an unwritable output before any network work.
	if err := checkWritable(file); err != nil {
		return err
	}

	overridesPath, err := a.overridesPath()
	if err != nil {
		return err
	}
	overrides, err := catalog.LoadOverrides(overridesPath)
	if err != nil {
		return err
	}

	store, err := a.openStore()
	if err != nil {
		return err
	}
	defer store.Detach()

	var (
		setCache      catalog.SetCache
		printingCache catalog.PrintingCache
	)
	if !opts.noCache {
		setCache = store
		printingCache = store
	}

	sanitizer := catalog.NewSanitizer(a.log, overrides.Typos)
	scraper := scrape.NewScraper(nil, sanitizer, a.log)

	var (
		raw    *types.RawCube
		source string
	)
	if opts.html != "" {
		source = opts.html
		raw, err = scraper.ExecuteFile(opts.html)
	} else {
		source = opts.url
		if source == "" {
			source = a.cfg.GetString(cfgKeyURL)
		}
		raw, err = scraper.Execute(ctx, source)
	}
	if err != nil {
		return err
	}

	client := mtgapi.NewClient(
		mtgapi.WithBaseURL(a.cfg.GetString(cfgKeyAPIURL)),
		mtgapi.WithLogger(a.log),
	)
	sets := catalog.NewSetRepository(client, setCache, a.cacheTTL(), overrides.Blacklist, a.log)
	mapper := catalog.NewMapper(catalog.NewExtraRepository(overrides.Extras), sets, client, printingCache, a.cacheTTL(), a.log)

	concurrency := opts.concurrency
	if concurrency <= 0 {
		concurrency = a.cfg.GetInt(cfgKeyConcurrency)
	}

	a.log.Infof("Resolving %d cards (concurrency %d)", raw.Len(), concurrency)
	cube, err := catalog.BuildCube(ctx, raw, mapper, concurrency)
	if err != nil {
		return err
	}

	if err := deckfile.Export(deckfile.XMage{}, cube, file, a.log); err != nil {
		return err
	}

	runID, err := store.RecordRun(types.Run{
		CubeName: cube.Name,
		CubeDate: cube.Date,
		Author:   cube.Author,
		Source:   source,
		Output:   file,
		Cards:    cube.Len(),
		Distinct: cube.Distinct(),
	})
	if err != nil {
		// The deck is already written; a missing history row is not fatal.
		a.log.Warnf("Run not recorded: %v", err)
	}

	printCubeSummary(cmd.OutOrStdout(), cube, file, runID)
	return nil
}

// checkWritable opens path for appending, creating it when missing.
func checkWritable(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

func printCubeSummary(w io.Writer, cube *types.Cube, path, runID string) {
	label := color.New(color.FgCyan).SprintFunc()
	value := color.New(color.FgHiWhite).SprintfFunc()

	fmt.Fprintln(w, label("Cube:    ")+value("%s (%s)", cube.Name, cube.Date.Format("2006-01-02")))
	fmt.Fprintln(w, label("Author:  ")+value("%s", cube.Author))
	fmt.Fprintln(w, label("Cards:   ")+value("%d (%d distinct)", cube.Len(), cube.Distinct()))
	fmt.Fprintln(w, label("Deck:    ")+value("%s", path))
	if runID != "" {
		fmt.Fprintln(w, label("Run:     ")+value("%s", runID))
	}
}
