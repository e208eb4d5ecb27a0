package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/yukikurage/workstream-api/internal/dto"
	"github.com/yukikurage/workstream-api/internal/models"
	"github.com/yukikurage/workstream-api/internal/services"
	"github.com/yukikurage/workstream-api/internal/views"
)

var errNotConfirmed = errors.New("refusing to continue without --yes")

// operator is the CLI's viewer: it sees everything, like a manager.
var operator = views.Viewer{Name: "workstreamctl", Manager: true}

func importCmd() *cobra.Command {
	var (
		file       string
		autoAssign bool
		dryRun     bool
	)
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import spreadsheet rows from a JSON or YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := readRows(appFs, file)
			if err != nil {
				return err
			}
			input := services.ImportInput{
				Rows:       rows,
				AutoAssign: autoAssign,
				AssignedBy: viper.GetString("actor"),
			}
			return withApp(func(a app) error {
				out := cmd.OutOrStdout()
				if dryRun {
					preview, err := a.workstream.PreviewImport(input)
					if err != nil {
						return err
					}
					if viper.GetBool("json") {
						return printJSON(out, dto.ToImportPreviewDTO(preview))
					}

					fmt.Fprintf(out, "Dry run: would import %d row(s), skip %d, create %d project(s).\n",
						len(preview.Tasks), len(preview.Rejected), len(preview.NewProjects))
					renderImportOutcome(out, preview.Assignments, preview.Unassigned, preview.Rejected)
					return nil
				}

				report, err := a.workstream.Import(input)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(out, dto.ToImportReportDTO(report))
				}

				fmt.Fprintf(out, "Imported %d row(s), skipped %d, created %d project(s).\n",
					len(report.Imported), len(report.Rejected), len(report.CreatedProjects))
				renderImportOutcome(out, report.Assignments, report.Unassigned, report.Rejected)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "rows file (.json, .yaml, .yml)")
	cmd.Flags().BoolVar(&autoAssign, "auto-assign", false, "assign unowned rows to the least-loaded people")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be imported without writing anything")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func renderImportOutcome(out io.Writer, assignments []models.TaskAssignment, unassigned []int, rejected []services.RowRejection) {
	if len(assignments) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(out)
		tw.AppendHeader(table.Row{"Task", "Project", "Assigned To", "Priority"})
		for _, as := range assignments {
			tw.AppendRow(table.Row{as.TaskName, as.ProjectName, as.AssignedTo, as.Priority})
		}
		tw.Render()
	}
	if len(unassigned) > 0 {
		fmt.Fprintf(out, "%d row(s) left unassigned: everyone is at capacity.\n", len(unassigned))
	}
	if len(rejected) > 0 {
		tw := table.NewWriter()
		tw.SetOutputMirror(out)
		tw.AppendHeader(table.Row{"Row", "Task", "Project", "Reason"})
		for _, r := range rejected {
			tw.AppendRow(table.Row{r.Row + 1, r.Title, r.Project, r.Reason})
		}
		tw.Render()
	}
}

func leadsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leads",
		Short: "Show everyone's active workload, least busy first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a app) error {
				leads := a.workstream.Leads(operator)
				out := cmd.OutOrStdout()
				if viper.GetBool("json") {
					return printJSON(out, dto.ToLeadDTOs(leads))
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(out)
				tw.AppendHeader(table.Row{"ID", "Name", "Role", "Active", "Working On"})
				for _, l := range leads {
					tw.AppendRow(table.Row{l.ID, l.Name, l.Role, l.Availability, strings.Join(l.Tags, ", ")})
				}
				tw.Render()
				return nil
			})
		},
	}
}

func projectsCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List projects by status priority",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := models.ProjectStatus(status)
			if filter != "" && !filter.Valid() {
				return fmt.Errorf("unknown status %q", status)
			}
			return withApp(func(a app) error {
				projects := a.workstream.Projects(operator, filter)
				out := cmd.OutOrStdout()
				if viper.GetBool("json") {
					return printJSON(out, dto.ToProjectDTOs(projects))
				}
				tw := table.NewWriter()
				tw.SetOutputMirror(out)
				tw.AppendHeader(table.Row{"ID", "Name", "Status", "Health", "Members"})
				for _, p := range projects {
					tw.AppendRow(table.Row{p.ID, p.Name, p.Status, p.Health, p.MemberCount})
				}
				tw.Render()
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "only list projects with this status")
	return cmd
}

func offboardCmd() *cobra.Command {
	var (
		person  string
		project string
		yes     bool
	)
	cmd := &cobra.Command{
		Use:   "offboard",
		Short: "Remove a person's open tasks from a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			return withApp(func(a app) error {
				res, err := a.workstream.Offboard(person, project)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), dto.ToOffboardResponse(res))
				}
				fmt.Fprintln(cmd.OutOrStdout(), res.Message())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&person, "person", "", "person name")
	cmd.Flags().StringVar(&project, "project", "", "project name")
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the removal")
	_ = cmd.MarkFlagRequired("person")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every task outside completed projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errNotConfirmed
			}
			return withApp(func(a app) error {
				res, err := a.workstream.ClearActiveTasks()
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(cmd.OutOrStdout(), dto.ToClearResponse(res))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d task(s); kept %d in completed projects.\n", len(res.Removed), res.Preserved)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm the reset")
	return cmd
}
