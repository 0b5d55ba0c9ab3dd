package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/bjesuiter/github-light/internal/aggregator"
	"github.com/bjesuiter/github-light/internal/config"
	"github.com/bjesuiter/github-light/internal/domain"
	"github.com/bjesuiter/github-light/internal/github"
	"github.com/bjesuiter/github-light/internal/projects"
	"github.com/bjesuiter/github-light/internal/wizard"
)

var (
	outputJSON   bool
	query        string
	showArchived bool
	flatList     bool
	sortMode     string
	sortDesc     bool

	createOwner       string
	createDescription string
	createPublic      bool
	createNoInit      bool
	createGitignore   string
	createLicense     string
)

var rootCmd = &cobra.Command{
	Use:   "github-light",
	Short: "GitHub repository dashboard tool",
	Long: `A CLI companion to the github-light dashboard.

It lists your repositories grouped by owner (your account first, then
organizations you administer) and creates new repositories through the
same validation the dashboard wizard applies.`,
}

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "List repositories grouped by owner",
	Long:  `Fetch all repositories you own or belong to and display them grouped and ranked by owner.`,
	Args:  cobra.NoArgs,
	RunE:  runProjects,
}

var createCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a new repository",
	Long:  `Create a repository under your account or one of your organizations, validated like the dashboard wizard.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	projectsCmd.Flags().BoolVar(&outputJSON, "json", false, "output in JSON format")
	projectsCmd.Flags().StringVar(&query, "query", "", "filter by name, full name, or owner login")
	projectsCmd.Flags().BoolVar(&showArchived, "archived", false, "include archived repositories")
	projectsCmd.Flags().BoolVar(&flatList, "flat", false, "print one flat list instead of owner groups")
	projectsCmd.Flags().StringVar(&sortMode, "sort", "name", "sort mode (name, recent)")
	projectsCmd.Flags().BoolVar(&sortDesc, "desc", false, "reverse the sort direction")

	createCmd.Flags().StringVar(&createOwner, "owner", "", "owner login (defaults to your account)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "repository description")
	createCmd.Flags().BoolVar(&createPublic, "public", false, "create a public repository (default private)")
	createCmd.Flags().BoolVar(&createNoInit, "no-init", false, "skip initial commit")
	createCmd.Flags().StringVar(&createGitignore, "gitignore", "", ".gitignore template id")
	createCmd.Flags().StringVar(&createLicense, "license", "", "license template id")

	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(createCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func githubClient() (*github.Client, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	token := cfg.GitHubToken
	if token == "" {
		token = cfg.DevGitHubToken
	}
	if token == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required")
	}

	return github.NewClient(token), nil
}

func runProjects(cmd *cobra.Command, args []string) error {
	client, err := githubClient()
	if err != nil {
		return err
	}

	agg := aggregator.NewAggregator(client)
	aggregate, err := agg.AggregateProjects(context.Background())
	if err != nil {
		return err
	}

	opts := projects.DefaultOptions()
	opts.Query = query
	opts.ShowArchived = showArchived
	opts.GroupByOwner = !flatList
	if sortMode == string(projects.SortByRecent) {
		opts.SortMode = projects.SortByRecent
		if sortDesc {
			opts.RecentSortDirection = projects.SortAscending
		}
	} else if sortDesc {
		opts.NameSortDirection = projects.SortDescending
	}

	view := projects.Project(aggregate, opts)

	if outputJSON {
		return json.NewEncoder(os.Stdout).Encode(view)
	}

	if flatList {
		renderRepoTable(view.Repos)
		return nil
	}

	for _, group := range view.Groups {
		label := group.Owner.Login
		if group.Owner.IsViewer {
			label += " (you)"
		} else if group.Owner.IsOwnOrg {
			label += " (admin)"
		}
		fmt.Printf("\n%s\n", label)
		renderRepoTable(group.Repos)
	}
	return nil
}

func renderRepoTable(repos []domain.Repository) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Name", "Visibility", "Updated", "Stars", "Description"})
	table.SetBorder(false)

	for _, repo := range repos {
		visibility := "public"
		if repo.Private {
			visibility = "private"
		}
		if repo.Archived {
			visibility += " (archived)"
		}

		table.Append([]string{
			repo.Name,
			visibility,
			repo.UpdatedAt.Format("2006-01-02"),
			fmt.Sprintf("%d", repo.Stars),
			repo.Description,
		})
	}

	table.Render()
}

func runCreate(cmd *cobra.Command, args []string) error {
	client, err := githubClient()
	if err != nil {
		return err
	}

	ctx := context.Background()

	owner := createOwner
	if owner == "" {
		viewer, err := client.GetViewer(ctx)
		if err != nil {
			return err
		}
		owner = viewer.Login
	}

	visibility := wizard.VisibilityPrivate
	if createPublic {
		visibility = wizard.VisibilityPublic
	}

	w := wizard.New(func(ctx context.Context, draft wizard.NewRepoDraft) (*wizard.Result, error) {
		created, err := client.CreateRepository(ctx, github.CreateParams{
			Name:              draft.Name,
			Description:       draft.Description,
			OwnerLogin:        draft.OwnerLogin,
			Private:           draft.Visibility == wizard.VisibilityPrivate,
			AutoInit:          draft.AutoInit,
			GitignoreTemplate: draft.GitignoreTemplate,
			LicenseTemplate:   draft.LicenseTemplate,
		})
		if err != nil {
			return nil, err
		}
		return &wizard.Result{FullName: created.FullName, HTMLURL: created.HTMLURL}, nil
	})

	w.UpdateDraft(func(draft *wizard.NewRepoDraft) {
		draft.Name = args[0]
		draft.Description = createDescription
		draft.OwnerLogin = owner
		draft.Visibility = visibility
		draft.AutoInit = !createNoInit
		draft.GitignoreTemplate = createGitignore
		draft.LicenseTemplate = createLicense
	})

	// Walk the stepper so every section is validated before submitting
	for w.Step() != wizard.StepReview {
		if !w.Next() {
			for _, msg := range w.Errors() {
				fmt.Fprintln(os.Stderr, msg)
			}
			return fmt.Errorf("draft is incomplete at step %q", w.Step())
		}
	}

	result, err := w.Submit(ctx)
	if err != nil {
		for _, msg := range w.Errors() {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	fmt.Println(w.SuccessMessage())
	if result.HTMLURL != "" {
		fmt.Println(result.HTMLURL)
	}
	return nil
}
