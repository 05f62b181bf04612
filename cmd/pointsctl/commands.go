package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/solspace/solspace-backend/internal/adapter"
	"github.com/solspace/solspace-backend/internal/api/shared/executor"
	"github.com/solspace/solspace-backend/internal/gameplay"
	"github.com/solspace/solspace-backend/internal/leaderboard"
	"github.com/solspace/solspace-backend/internal/messaging"
	"github.com/solspace/solspace-backend/internal/providers/jetstream"
	"github.com/solspace/solspace-backend/internal/providers/solana"
	"github.com/solspace/solspace-backend/internal/reconciler"
	"github.com/solspace/solspace-backend/internal/store"
)

func init() {
	rootCmd.AddCommand(seasonCmd, balanceCmd, reconcileCmd, leaderboardCmd, finalizeCmd, messageCmd, migrateCmd)

	leaderboardCmd.Flags().String("window", "48h", "Trailing window of the current view (48h or 7d)")
	leaderboardCmd.Flags().String("season", "", "Show the final standings of a season instead")
}

var seasonCmd = &cobra.Command{
	Use:   "season",
	Short: "Show the running season and its bounds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := current.exec.GetCurrentSeason(cmd.Context())
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) {
			fmt.Fprintf(w, "%s\t%s\t%s\n", resp.Season, resp.Start.Format("2006-01-02 15:04"), resp.End.Format("2006-01-02 15:04"))
		})
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance IDENTITY",
	Short: "Show the points balance of an identity",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := current.exec.GetBalance(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) {
			fmt.Fprintf(w, "%s\t%d\n", resp.Identity, resp.Points)
		})
	},
}

var reconcileCmd = &cobra.Command{
	Use:   "reconcile IDENTITY",
	Short: "Credit recent deposits from an identity to the collection address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := current.cfg
		if err := cfg.Solana.Validate(); err != nil {
			return err
		}

		jsonAdapter := adapter.NewJSON()
		client := solana.NewClient(solana.Config{
			RPCURL:     cfg.Solana.RPCURL,
			Commitment: cfg.Solana.Commitment,
		}, adapter.NewHTTPClient(cfg.Solana.HTTPTimeout, adapter.DefaultRetryPolicy), jsonAdapter)

		publisher := messaging.NewNoopPublisher()
		if cfg.NATS.URL != "" {
			var err error
			publisher, err = jetstream.NewPublisher(cmd.Context(), jetstream.Config{
				URL:            cfg.NATS.URL,
				StreamName:     cfg.NATS.StreamName,
				SubjectPrefix:  cfg.NATS.SubjectPrefix,
				MaxReconnects:  cfg.NATS.MaxReconnects,
				ReconnectWait:  cfg.NATS.ReconnectWait,
				ConnectionName: "pointsctl",
			}, adapter.NewNatsJetStream(), jsonAdapter)
			if err != nil {
				return err
			}
		}
		defer publisher.Close()

		rec, err := reconciler.NewReconciler(reconciler.Config{
			CollectionAddress: cfg.Solana.CollectionAddress,
			SignatureLimit:    cfg.Deposit.SignatureLimit,
			MinAmountSOL:      cfg.Deposit.MinAmountSOL,
			PointsPerSOL:      cfg.Deposit.PointsPerSOL,
			FetchConcurrency:  cfg.Deposit.FetchConcurrency,
		}, client, current.store, publisher, current.clock)
		if err != nil {
			return err
		}
		defer rec.Close()

		exec := executor.NewExecutor(current.store, rec, nil, leaderboard.NewService(current.store, current.clock), current.clock)
		resp, err := exec.ReconcileDeposits(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) {
			for _, credit := range resp.Credits {
				fmt.Fprintf(w, "%s\t%d lamports\t+%d\n", credit.Signature, credit.Lamports, credit.Points)
			}
			fmt.Fprintf(w, "credited\t%d\tbalance %d\n", resp.CreditedPoints, resp.Balance)
		})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the current or final leaderboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		window, _ := cmd.Flags().GetString("window")
		seasonID, _ := cmd.Flags().GetString("season")

		var (
			board *leaderboard.Board
			err   error
		)
		if seasonID != "" {
			board, err = current.exec.GetSeasonLeaderboard(cmd.Context(), seasonID)
		} else {
			board, err = current.exec.GetCurrentLeaderboard(cmd.Context(), window)
		}
		if err != nil {
			return err
		}

		return render(cmd.OutOrStdout(), board, func(w io.Writer) {
			fmt.Fprintf(w, "%s %s\tfrozen=%t\n", board.Season, board.View, board.Frozen)
			fmt.Fprintln(w, "RANK\tIDENTITY\tPROFIT\tVOLUME\tROUNDS\tSCORE\tBALANCE")
			for _, e := range board.Entries {
				fmt.Fprintf(w, "%d\t%s\t%.2f\t%.2f\t%d\t%.4f\t%d\n",
					e.Rank, e.Identity, e.TotalProfit, e.TotalVolume, e.Rounds, e.Score, e.Balance)
			}
		})
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize SEASON",
	Short: "Freeze the standings of a closed season",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := current.exec.FinalizeSeason(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), resp, func(w io.Writer) {
			fmt.Fprintf(w, "%s\tfrozen %d entries\n", resp.Season, resp.Entries)
		})
	},
}

var messageCmd = &cobra.Command{
	Use:   "message IDENTITY PROFIT VOLUME",
	Short: "Print the message a wallet signs to submit a game event",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		profit, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid profit: %w", err)
		}
		volume, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid volume: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(gameplay.SubmissionMessage(args[0], profit, volume)))
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the tables from the models",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := store.Migrate(current.db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "migrated")
		return nil
	},
}

// render prints v as indented JSON with --json, otherwise through the table writer
func render(out io.Writer, v any, table func(w io.Writer)) error {
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	table(tw)
	return tw.Flush()
}
