package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"arbeitskorb/internal/app"
	"arbeitskorb/internal/domain"
	"arbeitskorb/internal/engine"
	"arbeitskorb/internal/server"
)

var rootCmd = &cobra.Command{
	Use:   "ak",
	Short: "Arbeitskorb CLI",
	Long: `Arbeitskorb is a casework inbox for an insurance back office.
Work items are tasks tied to a customer, contract or claim. The CLI
searches the inbox, applies actions (start, forward, reschedule,
complete), shows the aggregated context of a business object, records
document uploads and serves the HTTP API. State lives in the workspace
snapshot under .arbeitskorb; 'ak reset' restores the seed fixture.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("ARBEITSKORB")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().StringP("workspace", "w", ".", "workspace directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	_ = viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func registerCommands() {
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(actionCmd())
	rootCmd.AddCommand(contextCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(resetCmd())
	rootCmd.AddCommand(serveCmd())
}

func withApp(ctx context.Context, fn func(ctx context.Context, a *app.App) error) error {
	a, err := app.Open(viper.GetString("workspace"))
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func searchCmd() *cobra.Command {
	var (
		q, status, basket, colleague string
		objectType, objectID, sortBy string
		page, size                   int
	)
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search work items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				opts := engine.SearchOptions{
					Page:      page,
					Size:      size,
					Sort:      sortBy,
					Query:     q,
					Colleague: colleague,
					ObjectID:  objectID,
				}
				if status != "" {
					parsed, err := domain.ParseStatus(status)
					if err != nil {
						return err
					}
					opts.Status = parsed
				}
				if basket != "" {
					parsed, err := domain.ParseBasketScope(basket)
					if err != nil {
						return err
					}
					opts.Basket = parsed
				}
				if objectType != "" {
					parsed, err := domain.ParseObjectType(objectType)
					if err != nil {
						return err
					}
					opts.ObjectType = parsed
				}
				result, err := a.Engine.Search(ctx, opts)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(result)
				}
				renderItems(result.Items)
				fmt.Printf("total: %d\n", result.Total)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&q, "q", "", "free-text query")
	cmd.Flags().StringVar(&status, "status", "", "status filter (OPEN|IN_PROGRESS|BLOCKED|DONE)")
	cmd.Flags().StringVar(&basket, "basket", "MY", "basket scope (MY|TEAM|COLLEAGUE)")
	cmd.Flags().StringVar(&colleague, "colleague", "", "colleague name for basket COLLEAGUE")
	cmd.Flags().StringVar(&objectType, "object-type", "", "object type filter (CUSTOMER|CONTRACT|CLAIM)")
	cmd.Flags().StringVar(&objectID, "object-id", "", "object id filter")
	cmd.Flags().StringVar(&sortBy, "sort", "receivedAt,desc", "sort token: field[,desc]")
	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&size, "size", 10, "page size")
	return cmd
}

func showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				item, err := a.Engine.GetWorkItem(ctx, args[0])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(item)
				}
				renderItems([]domain.WorkItem{item})
				return nil
			})
		},
	}
}

func actionCmd() *cobra.Command {
	var assignee, followUpAt, comment string
	cmd := &cobra.Command{
		Use:   "action <id> <START|FORWARD|RESCHEDULE|COMPLETE>",
		Short: "Apply an action to a work item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				var at *time.Time
				if followUpAt != "" {
					parsed, err := time.Parse(time.RFC3339, followUpAt)
					if err != nil {
						return fmt.Errorf("--follow-up-at: %w", err)
					}
					at = &parsed
				}
				act, err := engine.ParseAction(args[1], assignee, at)
				if err != nil {
					return err
				}
				item, err := a.Engine.ApplyAction(ctx, args[0], act, comment)
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(item)
				}
				fmt.Printf("%s -> %s\n", item.ID, item.Status)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee for FORWARD")
	cmd.Flags().StringVar(&followUpAt, "follow-up-at", "", "RFC3339 follow-up date for RESCHEDULE")
	cmd.Flags().StringVar(&comment, "comment", "", "comment recorded in the protocol")
	return cmd
}

func contextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "context <objectType> <objectId>",
		Short: "Show the aggregated context view of a business object",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				objectType, err := domain.ParseObjectType(args[0])
				if err != nil {
					return err
				}
				view, err := a.Engine.GetContext(ctx, objectType, args[1])
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(view)
				}
				renderContext(view)
				return nil
			})
		},
	}
}

func uploadCmd() *cobra.Command {
	var fileName, mimeType, uploadedBy string
	var keywords []string
	var size int64
	cmd := &cobra.Command{
		Use:   "upload <objectType> <objectId>",
		Short: "Record uploaded document metadata",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				objectType, err := domain.ParseObjectType(args[0])
				if err != nil {
					return err
				}
				doc, err := a.Engine.UploadDocument(ctx, objectType, args[1], engine.UploadCommand{
					FileName:      fileName,
					MimeType:      mimeType,
					SizeInBytes:   size,
					IndexKeywords: keywords,
					UploadedBy:    uploadedBy,
				})
				if err != nil {
					return err
				}
				if viper.GetBool("json") {
					return printJSON(doc)
				}
				fmt.Printf("%s %s (%d bytes)\n", doc.ID, doc.FileName, doc.SizeInBytes)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&fileName, "file-name", "", "document file name (required)")
	cmd.Flags().StringVar(&mimeType, "mime-type", "", "mime type, defaults to application/octet-stream")
	cmd.Flags().Int64Var(&size, "size", 0, "document size in bytes")
	cmd.Flags().StringSliceVar(&keywords, "keywords", nil, "index keywords")
	cmd.Flags().StringVar(&uploadedBy, "uploaded-by", "", "uploader, defaults to the acting user")
	return cmd
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Restore the seed snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(ctx context.Context, a *app.App) error {
				if err := a.Engine.Reset(ctx); err != nil {
					return err
				}
				fmt.Println("seed snapshot restored")
				return nil
			})
		},
	}
}

func serveCmd() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API over a volatile seeded store",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := app.OpenVolatile(viper.GetString("workspace"))
			if err != nil {
				return err
			}
			defer a.Close()
			handler, err := server.New(server.Config{
				Engine:   a.Engine,
				BasePath: a.Config.Server.BasePath,
			})
			if err != nil {
				return err
			}
			addr := listen
			if addr == "" {
				addr = a.Config.Server.Listen
			}
			fmt.Printf("listening on %s (base path %s)\n", addr, a.Config.Server.BasePath)
			return http.ListenAndServe(addr, handler)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address, overrides config")
	return cmd
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderItems(items []domain.WorkItem) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"ID", "STATUS", "TITLE", "OBJECT", "ASSIGNED", "RECEIVED", "DUE"})
	for _, item := range items {
		t.AppendRow(table.Row{
			item.ID,
			item.Status,
			item.Title,
			item.Key().String(),
			item.AssignedTo,
			item.ReceivedAt.Format("2006-01-02 15:04"),
			item.DueAt.Format("2006-01-02 15:04"),
		})
	}
	t.Render()
}

func renderContext(view engine.ContextView) {
	fmt.Printf("%s\n%s\n\n", view.Title, view.Subtitle)
	renderItems(view.Tasks)
	if len(view.Documents) > 0 {
		t := table.NewWriter()
		t.SetOutputMirror(os.Stdout)
		t.AppendHeader(table.Row{"DOC", "FILE", "MIME", "SIZE", "UPLOADED", "BY"})
		for _, doc := range view.Documents {
			t.AppendRow(table.Row{
				doc.ID, doc.FileName, doc.MimeType, doc.SizeInBytes,
				doc.UploadedAt.Format("2006-01-02 15:04"), doc.UploadedBy,
			})
		}
		t.Render()
	}
	for _, entry := range view.ProtocolEntries {
		fmt.Printf("%s  [%s] %s: %s\n",
			entry.Timestamp.Format("2006-01-02 15:04"), entry.ID, entry.Source, entry.Message)
	}
}
