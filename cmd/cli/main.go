package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/iho/goremit/internal/adapter/http/dto"
	"github.com/iho/goremit/internal/adapter/http/middleware"
	"github.com/iho/goremit/internal/infrastructure/config"
	"github.com/iho/goremit/internal/infrastructure/logger"
	"github.com/iho/goremit/internal/infrastructure/postgres"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// apiClient calls the goremit HTTP API.
type apiClient struct {
	baseURL string
	http    *http.Client
	out     io.Writer
}

// apiError is a non-2xx response.
type apiError struct {
	Status int
	Body   dto.ErrorResponse
}

func (e *apiError) Error() string {
	if e.Body.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.Body.Error, e.Body.Message)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Body.Error)
}

// do sends body as JSON and prints the indented response.
func (c *apiClient) do(ctx context.Context, method, path string, body any, header http.Header) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, strings.TrimRight(c.baseURL, "/")+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &apiError{Status: resp.StatusCode}
		if json.Unmarshal(raw, &apiErr.Body) != nil || apiErr.Body.Error == "" {
			apiErr.Body.Error = strings.TrimSpace(string(raw))
		}
		return apiErr
	}

	var pretty bytes.Buffer
	if json.Indent(&pretty, raw, "", "  ") != nil {
		_, err = c.out.Write(raw)
		return err
	}
	pretty.WriteByte('\n')
	_, err = pretty.WriteTo(c.out)
	return err
}

func newRootCmd(out io.Writer) *cobra.Command {
	client := &apiClient{out: out}
	var timeout time.Duration

	rootCmd := &cobra.Command{
		Use:           "goremit-cli",
		Short:         "GoRemit CLI tool",
		Long:          `A command line interface for interacting with the GoRemit API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.http = &http.Client{Timeout: timeout}
		},
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&client.baseURL, "url", "http://localhost:8080", "Base URL of the GoRemit API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(
		newTransferCmd(client),
		newHistoryCmd(client),
		newAccountCmd(client),
		newLimitsCmd(client),
		newQuoteCmd(client),
		newReconcileCmd(client),
		newMigrateCmd(out),
	)

	return rootCmd
}

func newTransferCmd(client *apiClient) *cobra.Command {
	var req dto.TransferRequest
	var idempotencyKey string

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Send a remittance",
		RunE: func(cmd *cobra.Command, args []string) error {
			header := http.Header{}
			if idempotencyKey != "" {
				header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
			}
			return client.do(cmd.Context(), http.MethodPost, "/api/v1/remittances", req, header)
		},
	}

	cmd.Flags().Int64Var(&req.SenderID, "from", 0, "Sender account ID")
	cmd.Flags().Int64Var(&req.RecipientID, "to", 0, "Recipient account ID")
	cmd.Flags().StringVar(&req.Amount, "amount", "", "Amount in source currency, e.g. 100.00")
	cmd.Flags().StringVar(&req.Currency, "currency", "USD", "Destination currency")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newHistoryCmd(client *apiClient) *cobra.Command {
	var start, end string
	var page, size int

	cmd := &cobra.Command{
		Use:   "history <account-id>",
		Short: "List an account's remittances in a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := url.Values{}
			q.Set("start", start)
			q.Set("end", end)
			q.Set("page", fmt.Sprint(page))
			if size > 0 {
				q.Set("size", fmt.Sprint(size))
			}
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/remittances?" + q.Encode()
			return client.do(cmd.Context(), http.MethodGet, path, nil, nil)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "First day, yyyy-mm-dd")
	cmd.Flags().StringVar(&end, "end", "", "Last day, yyyy-mm-dd")
	cmd.Flags().IntVar(&page, "page", 0, "Zero-based page number")
	cmd.Flags().IntVar(&size, "size", 0, "Page size")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newAccountCmd(client *apiClient) *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account operations",
	}

	var req dto.OpenAccountRequest
	openCmd := &cobra.Command{
		Use:   "open",
		Short: "Open an account with its wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodPost, "/api/v1/accounts", req, nil)
		},
	}
	openCmd.Flags().StringVar(&req.Name, "name", "", "Holder name")
	openCmd.Flags().StringVar(&req.Document, "document", "", "Holder document, digits only")
	openCmd.Flags().StringVar(&req.Category, "category", "INDIVIDUAL", "INDIVIDUAL or BUSINESS")
	openCmd.Flags().StringVar(&req.InitialBalance, "balance", "", "Initial wallet balance")
	_ = openCmd.MarkFlagRequired("name")
	_ = openCmd.MarkFlagRequired("document")

	getCmd := &cobra.Command{
		Use:   "get <account-id>",
		Short: "Show an account and its balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	accountCmd.AddCommand(openCmd, getCmd)
	return accountCmd
}

func newLimitsCmd(client *apiClient) *cobra.Command {
	return &cobra.Command{
		Use:   "limits <account-id>",
		Short: "Show today's sent total and remaining limit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodGet, "/api/v1/accounts/"+url.PathEscape(args[0])+"/limits", nil, nil)
		},
	}
}

func newQuoteCmd(client *apiClient) *cobra.Command {
	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Exchange rate operations",
	}

	getCmd := &cobra.Command{
		Use:   "get <currency>",
		Short: "Show today's rate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodGet, "/api/v1/quotes/"+url.PathEscape(args[0]), nil, nil)
		},
	}

	var req dto.PublishQuoteRequest
	setCmd := &cobra.Command{
		Use:   "set <currency>",
		Short: "Publish the rate of a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return client.do(cmd.Context(), http.MethodPut, "/api/v1/quotes/"+url.PathEscape(args[0]), req, nil)
		},
	}
	setCmd.Flags().StringVar(&req.Rate, "rate", "", "Units of source currency per destination unit")
	setCmd.Flags().StringVar(&req.Date, "date", "", "Day, yyyy-mm-dd (default today)")
	_ = setCmd.MarkFlagRequired("rate")

	quoteCmd.AddCommand(getCmd, setCmd)
	return quoteCmd
}

func newReconcileCmd(client *apiClient) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "reconcile <account-id>",
		Short: "Compare the daily aggregate with the ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/accounts/" + url.PathEscape(args[0]) + "/reconciliation"
			if date != "" {
				path += "?date=" + url.QueryEscape(date)
			}
			return client.do(cmd.Context(), http.MethodGet, path, nil, nil)
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day, yyyy-mm-dd (default today)")

	return cmd
}

func newMigrateCmd(out io.Writer) *cobra.Command {
	var databaseURL, path string

	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back database migrations",
	}

	resolve := func() (string, string, error) {
		if databaseURL != "" && path != "" {
			return databaseURL, path, nil
		}
		cfg, err := config.Load()
		if err != nil {
			return "", "", err
		}
		if databaseURL == "" {
			databaseURL = cfg.DatabaseURL
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		return databaseURL, path, nil
	}

	log := func() zerolog.Logger {
		return logger.NewWithWriter(logger.Config{Level: "info", Format: "console"}, out)
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, dir, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrations(dbURL, dir, log())
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the last migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbURL, dir, err := resolve()
			if err != nil {
				return err
			}
			return postgres.RunMigrationsDown(dbURL, dir, log())
		},
	}

	migrateCmd.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL (default DATABASE_URL)")
	migrateCmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (default MIGRATIONS_PATH)")
	migrateCmd.AddCommand(upCmd, downCmd)

	return migrateCmd
}
