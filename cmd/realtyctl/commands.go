package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/oksasatya/go-realty-backend/internal/application"
	"github.com/oksasatya/go-realty-backend/internal/domain/entity"
)

// Backend is what the operator commands act on.
type Backend interface {
	MigrateUp() error
	MigrateDown(steps int) error
	CreateAdmin(ctx context.Context, in application.RegisterInput) (*entity.User, error)
	PurgeCustomer(ctx context.Context, id string) error
}

// Opener connects to the backend lazily so --help never needs a database.
type Opener func(ctx context.Context) (Backend, func(), error)

func NewRootCmd(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:           "realtyctl",
		Short:         "Operator tool for the realty backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		MigrateCmd(open),
		SeedAdminCmd(open),
		PurgeCustomerCmd(open),
	)
	return root
}

func withBackend(cmd *cobra.Command, open Opener, fn func(b Backend) error) error {
	b, closeFn, err := open(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()
	return fn(b)
}

func MigrateCmd(open Opener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or revert database migrations",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withBackend(cmd, open, func(b Backend) error {
				if err := b.MigrateUp(); err != nil {
					return err
				}
				cmd.Println("migrations applied")
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Revert the last migration, or the given number of steps",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 1 {
					return fmt.Errorf("steps must be a positive integer, got %q", args[0])
				}
				steps = n
			}
			return withBackend(cmd, open, func(b Backend) error {
				if err := b.MigrateDown(steps); err != nil {
					return err
				}
				cmd.Printf("reverted %d migration(s)\n", steps)
				return nil
			})
		},
	})
	return cmd
}

func SeedAdminCmd(open Opener) *cobra.Command {
	var in application.RegisterInput
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in.Role = entity.RoleAdmin
			return withBackend(cmd, open, func(b Backend) error {
				u, err := b.CreateAdmin(cmd.Context(), in)
				if err != nil {
					return err
				}
				cmd.Printf("created admin id=%s username=%s email=%s\n", u.ID, u.Username, u.Email)
				return nil
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&in.Username, "username", "", "admin username")
	f.StringVar(&in.Email, "email", "", "admin email")
	f.StringVar(&in.Password, "password", "", "admin password (min 8 characters)")
	f.StringVar(&in.FirstName, "first-name", "", "first name")
	f.StringVar(&in.LastName, "last-name", "", "last name")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func PurgeCustomerCmd(open Opener) *cobra.Command {
	return &cobra.Command{
		Use:   "purge-customer [id]",
		Short: "Permanently remove a soft-deleted customer",
		Long:  "Hard-deletes a customer that is already inactive. Customers still referenced by a property are refused.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withBackend(cmd, open, func(b Backend) error {
				if err := b.PurgeCustomer(cmd.Context(), args[0]); err != nil {
					return err
				}
				cmd.Printf("customer %s purged\n", args[0])
				return nil
			})
		},
	}
}
