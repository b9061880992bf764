// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/helpdesk-relay/internal/config"
	relayerrors "github.com/sirseerhq/helpdesk-relay/internal/errors"
	"github.com/sirseerhq/helpdesk-relay/internal/output"
	"github.com/sirseerhq/helpdesk-relay/internal/zendesk"
)

// syncCmd represents the sync command
func newSyncCommand() *cobra.Command {
	var (
		configPath  string
		email       string
		token       string
		alias       string
		outputFile  string
		roleFlags   []string
		dryRun      bool
		updateDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:   "sync <subdomain>",
		Short: "Align the alias of helpdesk users selected by role conditions",
		Long: `Fetch every user from the helpdesk account at <subdomain>, select users
matching the configured role conditions, and set the alias of every match
whose current alias differs from the desired value.

The full user list is fetched first; any fetch failure aborts the run before
a single update is made. Individual update failures are logged and the run
continues with the remaining users.

Authentication uses the account email plus an API token:
  - Use --token to provide the token directly
  - Or set the token environment variable (HELPDESK_API_TOKEN by default)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			// Flags take precedence over environment and file values
			cfg.Helpdesk.Subdomain = args[0]
			if email != "" {
				cfg.Helpdesk.Email = email
			}
			if alias != "" {
				cfg.Defaults.Alias = alias
			}
			if cmd.Flags().Changed("update-delay") {
				cfg.Defaults.UpdateDelay = updateDelay.String()
			}
			if len(roleFlags) > 0 {
				conditions, cErr := parseConditions(roleFlags)
				if cErr != nil {
					return cErr
				}
				cfg.Conditions = conditions
			}

			if err := cfg.Validate(); err != nil {
				return err
			}
			if cfg.Helpdesk.Email == "" {
				return fmt.Errorf("account email not set. Use --email, HELPDESK_EMAIL, or the config file")
			}
			if cfg.Defaults.Alias == "" {
				return fmt.Errorf("desired alias not set. Use --alias, RELAY_ALIAS, or the config file")
			}
			if len(cfg.Conditions) == 0 {
				return fmt.Errorf("no role conditions configured. Use --role or the config file")
			}

			apiToken := getToken(token, cfg.Helpdesk.TokenEnv)
			if apiToken == "" {
				return fmt.Errorf("API token not found. Set %s or use --token flag", cfg.Helpdesk.TokenEnv)
			}

			// Create result writer
			var writer output.OutputWriter
			if outputFile == "" {
				writer = output.NewWriter(os.Stdout)
			} else {
				fileWriter, fErr := output.NewFileWriter(outputFile)
				if fErr != nil {
					return fmt.Errorf("failed to create output file: %w", fErr)
				}
				writer = fileWriter
			}
			defer writer.Close()

			client := zendesk.NewRESTClient(cfg.BaseURL(), cfg.Helpdesk.Email, apiToken, cfg.Defaults.PageSize)

			return runSync(cmd.Context(), client, writer, os.Stderr, syncOptions{
				Alias:      cfg.Defaults.Alias,
				Conditions: cfg.Conditions,
				DryRun:     dryRun,
				Delay:      cfg.UpdateDelay(),
			})
		},
	}

	// Define flags
	cmd.Flags().StringVar(&configPath, "config", "", "Config file path (default: standard locations)")
	cmd.Flags().StringVar(&email, "email", "", "Account email for API authentication (overrides HELPDESK_EMAIL)")
	cmd.Flags().StringVar(&token, "token", "", "API token (overrides the token environment variable)")
	cmd.Flags().StringVar(&alias, "alias", "", "Desired alias value for matched users")
	cmd.Flags().StringVar(&outputFile, "output", "", "Result file path (default: stdout)")
	cmd.Flags().StringArrayVar(&roleFlags, "role", nil, "Role condition as role:role_type, repeatable (e.g. admin:4)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without making update calls")
	cmd.Flags().DurationVar(&updateDelay, "update-delay", 0, "Courtesy pause between update calls (default 0 = off)")

	return cmd
}

// syncOptions carries the decision inputs for one sync run.
type syncOptions struct {
	Alias      string
	Conditions []config.Condition
	DryRun     bool
	Delay      time.Duration
}

// runSync executes the three phases of a run: fetch all users, filter by the
// role conditions, and align the alias of each match. The fetch is fail-fast;
// per-user updates are fail-soft.
func runSync(ctx context.Context, client zendesk.Client, writer output.OutputWriter, progress io.Writer, opts syncOptions) error {
	users, err := fetchAllUsers(ctx, client, progress)
	if err != nil {
		return err
	}

	var matched []zendesk.User
	for _, user := range users {
		if matchesAny(user, opts.Conditions) {
			matched = append(matched, user)
		}
	}

	fmt.Fprintf(progress, "Fetched %d users, %d match the configured roles\n", len(users), len(matched))

	if len(matched) == 0 {
		fmt.Fprintln(progress, "No users match the configured conditions; nothing to do")
		return nil
	}

	var updated, skipped, failed, planned int
	attempted := false

	for _, user := range matched {
		switch {
		case user.Alias == opts.Alias:
			skipped++
			fmt.Fprintf(progress, "user %d (%s): alias already %q, skipped\n", user.ID, user.Name, opts.Alias)
			if err := writeRecord(writer, user, output.ActionSkipped, opts.Alias, nil); err != nil {
				return err
			}

		case opts.DryRun:
			planned++
			fmt.Fprintf(progress, "user %d (%s): would set alias %q -> %q\n", user.ID, user.Name, user.Alias, opts.Alias)
			if err := writeRecord(writer, user, output.ActionPlanned, opts.Alias, nil); err != nil {
				return err
			}

		default:
			// Courtesy pause between update calls only; never before the first
			if attempted {
				pause(ctx, opts.Delay)
			}
			attempted = true

			if uErr := client.UpdateAlias(ctx, user.ID, opts.Alias); uErr != nil {
				failed++
				fmt.Fprintf(progress, "user %d (%s): update failed: %v\n", user.ID, user.Name, uErr)
				if err := writeRecord(writer, user, output.ActionFailed, opts.Alias, uErr); err != nil {
					return err
				}
				continue
			}

			updated++
			fmt.Fprintf(progress, "user %d (%s): alias set to %q\n", user.ID, user.Name, opts.Alias)
			if err := writeRecord(writer, user, output.ActionUpdated, opts.Alias, nil); err != nil {
				return err
			}
		}
	}

	if opts.DryRun {
		fmt.Fprintf(progress, "Dry run complete: %d would be updated, %d already aligned\n", planned, skipped)
	} else {
		fmt.Fprintf(progress, "Alias sync complete: %d updated, %d skipped, %d failed\n", updated, skipped, failed)
	}

	return nil
}

// fetchAllUsers retrieves the complete user list, following the
// server-supplied pagination cursor until the final page. Any failure aborts:
// a partial list is never returned.
func fetchAllUsers(ctx context.Context, client zendesk.Client, progress io.Writer) ([]zendesk.User, error) {
	var (
		all     []zendesk.User
		pageURL string
		pageNum int
	)

	fmt.Fprintf(progress, "Fetching users...")

	for {
		pageNum++
		page, err := client.FetchUsers(ctx, pageURL)
		if err != nil {
			fmt.Fprintf(progress, "\r\033[K") // Clear progress line
			return nil, fmt.Errorf("fetch aborted on page %d: %w", pageNum, err)
		}

		all = append(all, page.Users...)
		fmt.Fprintf(progress, "\rFetching users... %d fetched (page %d)", len(all), pageNum)

		if page.NextPage == "" {
			break
		}
		pageURL = page.NextPage
	}

	fmt.Fprintf(progress, "\r\033[K") // Clear progress line
	return all, nil
}

// matchesAny reports whether the user satisfies at least one condition.
// Within a condition both fields must match; role comparison is exact and
// case-sensitive.
func matchesAny(user zendesk.User, conditions []config.Condition) bool {
	for _, c := range conditions {
		if user.Role == c.Role && user.RoleType == c.RoleType {
			return true
		}
	}
	return false
}

// parseConditions parses repeatable --role flag values of the form
// role:role_type into conditions.
func parseConditions(values []string) ([]config.Condition, error) {
	conditions := make([]config.Condition, 0, len(values))
	for _, v := range values {
		parts := strings.Split(v, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid role condition. Expected: <role>:<role_type>, got: %s", v)
		}

		role := strings.TrimSpace(parts[0])
		if role == "" {
			return nil, fmt.Errorf("invalid role condition. Expected: <role>:<role_type>, got: %s", v)
		}

		roleType, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("invalid role_type in condition %q: %v", v, err)
		}

		conditions = append(conditions, config.Condition{Role: role, RoleType: roleType})
	}
	return conditions, nil
}

// getToken returns the API token from flag or environment variable
func getToken(flagToken, envVar string) string {
	if flagToken != "" {
		return flagToken
	}
	return os.Getenv(envVar)
}

// writeRecord emits one per-user result record.
func writeRecord(writer output.OutputWriter, user zendesk.User, action, alias string, cause error) error {
	record := output.Record{
		ID:     user.ID,
		Name:   user.Name,
		Action: action,
		Alias:  alias,
	}
	if cause != nil {
		record.Error = cause.Error()
	}
	if err := writer.Write(record); err != nil {
		return fmt.Errorf("failed to write result record: %w", err)
	}
	return nil
}

// pause sleeps for the configured courtesy delay, returning early when the
// context is canceled.
func pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// mapErrorToExitCode maps internal errors to appropriate exit codes
func mapErrorToExitCode(err error) int {
	if err == nil {
		return 0
	}

	if errors.Is(err, relayerrors.ErrInvalidCredentials) ||
		errors.Is(err, relayerrors.ErrRateLimited) {
		return 2 // Authentication/authorization errors
	}

	if errors.Is(err, relayerrors.ErrNetworkFailure) {
		return 3 // Network errors
	}

	return 1 // General error
}
