package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"jira-create-issue/internal/config"
	"jira-create-issue/internal/helpers"
	"jira-create-issue/internal/models"
	"jira-create-issue/internal/services"

	"github.com/spf13/cobra"
)

type options struct {
	configFile   string
	jiraServer   string
	jiraUser     string
	jiraToken    string
	timeout      int
	set          []string
	links        []string
	showFields   bool
	issueType    string
	issueProject string
	outputFile   string
	dryRun       bool
	verbose      bool
}

func main() {
	if err := newRootCmd(os.Stdout, os.LookupEnv).Execute(); err != nil {
		helpers.PrintError("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer, lookupEnv config.LookupFunc) *cobra.Command {
	opts := &options{}

	var rootCmd = &cobra.Command{
		Use:   "jira-create-issue",
		Short: "Create a JIRA issue with the provided fields and links",
		Long: `Creates a JIRA issue from --set FIELD=VALUE assignments and links it to
existing issues given with --link ISSUE_KEY:LINK_TYPE.

Credentials are read from JIRA_API_SERVER, JIRA_API_USERNAME and JIRA_API_TOKEN
unless given with --jira-server, --jira-user and --jira-token.

Fields may be named by API key (customfield_10014) or display name ("Epic Link").
Values are always strings; repeat --set for multi-value fields such as labels.`,
		Example: `  jira-create-issue --set project=PRJ --set issuetype=Task --set summary="Categorize defects" \
    --set assignee="Jane Doe" --set Sprint=382 --set "Epic Link"=PRJ-15465 --set timetracking=4h
  jira-create-issue --set project=PRJ --set issuetype=Feature --set summary="[PoC] Some feature" \
    --set labels=PoC --set labels=high_priority --link PRJ-236:"Is part of"
  jira-create-issue --show_fields --issue_type Task --issue_project PRJ`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, stdout, lookupEnv)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "Optional YAML configuration file path")
	flags.StringVarP(&opts.jiraServer, "jira-server", "s", "", "JIRA API server address (overrides "+config.EnvServer+" environment variable)")
	flags.StringVarP(&opts.jiraUser, "jira-user", "u", "", "JIRA API login username (overrides "+config.EnvUsername+" environment variable)")
	flags.StringVarP(&opts.jiraToken, "jira-token", "t", "", "JIRA API secure token (overrides "+config.EnvToken+" environment variable)")
	flags.IntVar(&opts.timeout, "timeout", 0, fmt.Sprintf("HTTP request timeout in seconds (default %d)", config.DefaultTimeoutSeconds))
	flags.StringArrayVar(&opts.set, "set", nil, "Set a field, FIELD=VALUE (repeatable, no spaces around '=')")
	flags.StringArrayVar(&opts.links, "link", nil, `Link the new issue, ISSUE_KEY:LINK_TYPE, e.g. PRJ-100:"Is part of" (repeatable)`)
	flags.BoolVar(&opts.showFields, "show_fields", false, "Show all fields (for specific information set --issue_type and --issue_project)")
	flags.StringVar(&opts.issueType, "issue_type", "", "Show fields of a specific issue type")
	flags.StringVar(&opts.issueProject, "issue_project", "", "Show fields of a specific project (requires --issue_type)")
	flags.StringVarP(&opts.outputFile, "output", "o", "", "Write --show_fields output to a file instead of stdout")
	flags.BoolVarP(&opts.dryRun, "dry-run", "d", false, "Resolve the fields and print the request without creating the issue")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Print debug messages")

	rootCmd.AddCommand(newInitCmd())

	return rootCmd
}

func newInitCmd() *cobra.Command {
	var force bool

	var initCmd = &cobra.Command{
		Use:   "init [path]",
		Short: "Write a sample configuration file",
		Long:  "Write a YAML configuration file with placeholder JIRA credentials (default path: config.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := "config.yaml"
			if len(args) == 1 {
				configPath = args[0]
			}

			if err := config.WriteSample(configPath, force); err != nil {
				return err
			}

			helpers.PrintSuccess("Configuration file created at %s", configPath)
			helpers.PrintWarning("Please edit the configuration file and add your JIRA credentials, then pass it with --config")
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing configuration file")

	return initCmd
}

func run(cmd *cobra.Command, opts *options, stdout io.Writer, lookupEnv config.LookupFunc) error {
	helpers.Verbose = opts.verbose

	assignments, err := models.ParseFieldAssignments(opts.set)
	if err != nil {
		return err
	}

	links, err := models.ParseLinkAssignments(opts.links)
	if err != nil {
		return err
	}

	if !opts.showFields && len(assignments) == 0 {
		return fmt.Errorf("no fields given, use --set FIELD=VALUE (at least project and issuetype) or --show_fields")
	}

	cfg, err := config.Resolve(opts.configFile, credentialOverrides(cmd, opts), lookupEnv)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	jiraService := services.NewJiraService(cfg)
	if err := jiraService.TestConnection(ctx); err != nil {
		return err
	}

	if opts.showFields {
		return showFields(ctx, jiraService, opts, stdout)
	}

	helpers.PrintTitle("Creating JIRA issue")
	issue, err := jiraService.BuildIssue(ctx, assignments)
	if err != nil {
		return err
	}

	if helpers.Verbose {
		if payload, err := helpers.MarshalJSON(issue); err == nil {
			helpers.PrintDebug("Request:\n%s", payload)
		}
	}

	if opts.dryRun {
		helpers.PrintInfo("Dry run mode - no JIRA issue will be created")
		return helpers.WriteJSON(stdout, issue)
	}

	created, err := jiraService.CreateIssue(ctx, issue)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "%s %s\n", created.Key, cfg.IssueURL(created.Key))

	if err := jiraService.LinkIssues(ctx, created.Key, links); err != nil {
		return fmt.Errorf("issue %s was created but linking failed: %w", created.Key, err)
	}

	return nil
}

func showFields(ctx context.Context, jiraService *services.JiraService, opts *options, stdout io.Writer) error {
	report, err := jiraService.FieldsReport(ctx, opts.issueType, opts.issueProject)
	if err != nil {
		return err
	}

	if opts.outputFile == "" {
		return helpers.WriteJSON(stdout, report)
	}

	if err := helpers.SaveJSON(report, opts.outputFile); err != nil {
		return fmt.Errorf("failed to save fields: %w", err)
	}
	helpers.PrintSuccess("Fields saved to %s", opts.outputFile)
	return nil
}

func credentialOverrides(cmd *cobra.Command, opts *options) config.Overrides {
	overrides := config.Overrides{TimeoutSeconds: opts.timeout}
	if cmd.Flags().Changed("jira-server") {
		overrides.Server = &opts.jiraServer
	}
	if cmd.Flags().Changed("jira-user") {
		overrides.Username = &opts.jiraUser
	}
	if cmd.Flags().Changed("jira-token") {
		overrides.Token = &opts.jiraToken
	}
	return overrides
}
