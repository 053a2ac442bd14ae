package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/swipe-matcher/internal/applications"
	"github.com/jonathan/swipe-matcher/internal/db"
	"github.com/jonathan/swipe-matcher/internal/events"
	"github.com/jonathan/swipe-matcher/internal/logging"
	"github.com/jonathan/swipe-matcher/internal/types"
	"github.com/spf13/cobra"
)

var applicationCmd = &cobra.Command{
	Use:   "application",
	Short: "Create, move and list job applications",
}

var applicationCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a pending application",
	RunE:  runApplicationCreate,
}

var applicationTransitionCmd = &cobra.Command{
	Use:   "transition",
	Short: "Move an application to a new status",
	Long: `Moves an application along the lifecycle
pending -> submitted -> under_review -> shortlisted -> interviewing -> offer_received -> accepted,
with rejected and withdrawn reachable from every non-terminal status.`,
	RunE: runApplicationTransition,
}

var applicationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's applications, newest first",
	RunE:  runApplicationList,
}

var (
	appUser   string
	appJob    string
	appMethod string
	appID     string
	appStatus string
	appActor  string
	appReason string
)

func init() {
	applicationCreateCmd.Flags().StringVarP(&appUser, "user", "u", "", "User ID (required)")
	applicationCreateCmd.Flags().StringVarP(&appJob, "job", "j", "", "Job ID (required)")
	applicationCreateCmd.Flags().StringVarP(&appMethod, "method", "m", string(types.MethodManual), "Application method: manual, auto_swipe, quick_apply or external")
	if err := applicationCreateCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}
	if err := applicationCreateCmd.MarkFlagRequired("job"); err != nil {
		panic(fmt.Sprintf("failed to mark job flag as required: %v", err))
	}

	applicationTransitionCmd.Flags().StringVar(&appID, "id", "", "Application ID (required)")
	applicationTransitionCmd.Flags().StringVarP(&appStatus, "to", "t", "", "Target status (required)")
	applicationTransitionCmd.Flags().StringVarP(&appActor, "actor", "a", string(types.ActorCandidate), "Actor: candidate, employer or system")
	applicationTransitionCmd.Flags().StringVarP(&appReason, "reason", "r", "", "Rejection reason")
	if err := applicationTransitionCmd.MarkFlagRequired("id"); err != nil {
		panic(fmt.Sprintf("failed to mark id flag as required: %v", err))
	}
	if err := applicationTransitionCmd.MarkFlagRequired("to"); err != nil {
		panic(fmt.Sprintf("failed to mark to flag as required: %v", err))
	}

	applicationListCmd.Flags().StringVarP(&appUser, "user", "u", "", "User ID (required)")
	applicationListCmd.Flags().StringVarP(&appStatus, "status", "s", "", "Only list applications in this status")
	if err := applicationListCmd.MarkFlagRequired("user"); err != nil {
		panic(fmt.Sprintf("failed to mark user flag as required: %v", err))
	}

	applicationCmd.AddCommand(applicationCreateCmd, applicationTransitionCmd, applicationListCmd)
	rootCmd.AddCommand(applicationCmd)
}

// withApplications opens the database and runs fn against an application service
func withApplications(cmd *cobra.Command, fn func(*applications.Service) error) error {
	ctx := cmd.Context()
	log := logging.Logger()

	database, err := connectDB(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	var notifier events.Notifier = events.NopNotifier{}
	if cfg.Redis.URL != "" {
		rdb, err := db.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		notifier = events.NewRedisNotifier(rdb, log)
	}

	return fn(applications.NewService(database, notifier, log).WithDirectory(guardDirectory(database)))
}

func printApplication(cmd *cobra.Command, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal application to JSON: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}

func runApplicationCreate(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(appUser)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", appUser, err)
	}
	jobID, err := uuid.Parse(appJob)
	if err != nil {
		return fmt.Errorf("invalid job ID %q: %w", appJob, err)
	}
	method, err := applications.ParseMethod(appMethod)
	if err != nil {
		return err
	}

	return withApplications(cmd, func(svc *applications.Service) error {
		app, err := svc.Create(cmd.Context(), applications.CreateInput{UserID: userID, JobID: jobID, Method: method})
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		return printApplication(cmd, app)
	})
}

func runApplicationTransition(cmd *cobra.Command, _ []string) error {
	id, err := uuid.Parse(appID)
	if err != nil {
		return fmt.Errorf("invalid application ID %q: %w", appID, err)
	}
	target, err := applications.ParseStatus(appStatus)
	if err != nil {
		return err
	}
	actor, err := applications.ParseActor(appActor)
	if err != nil {
		return err
	}

	return withApplications(cmd, func(svc *applications.Service) error {
		app, err := svc.TransitionWithReason(cmd.Context(), id, target, actor, appReason)
		if err != nil {
			return fmt.Errorf("failed to transition application: %w", err)
		}
		return printApplication(cmd, app)
	})
}

func runApplicationList(cmd *cobra.Command, _ []string) error {
	userID, err := uuid.Parse(appUser)
	if err != nil {
		return fmt.Errorf("invalid user ID %q: %w", appUser, err)
	}
	var status types.ApplicationStatus
	if appStatus != "" {
		if status, err = applications.ParseStatus(appStatus); err != nil {
			return err
		}
	}

	return withApplications(cmd, func(svc *applications.Service) error {
		apps, err := svc.ListByUser(cmd.Context(), userID, status)
		if err != nil {
			return fmt.Errorf("failed to list applications: %w", err)
		}
		return printApplication(cmd, apps)
	})
}
