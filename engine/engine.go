/*
 *  Consent permit ledger issues time-bounded permits and keeps a
 *  tamper-evident chain of action receipts
 *  Copyright (C) 2026 Consentdesk community
 *
 *  This program is free software: you can redistribute it and/or modify
 *  it under the terms of the GNU General Public License as published by
 *  the Free Software Foundation, either version 3 of the License, or
 *  (at your option) any later version.
 *
 *  This program is distributed in the hope that it will be useful,
 *  but WITHOUT ANY WARRANTY; without even the implied warranty of
 *  MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 *  GNU General Public License for more details.
 *
 *  You should have received a copy of the GNU General Public License
 *  along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package engine

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/consentdesk/consent-permit-service/api"
	"github.com/consentdesk/consent-permit-service/domain/ledger"
	"github.com/consentdesk/consent-permit-service/pkg"
	receipt_utils "github.com/consentdesk/consent-permit-service/receipt-utils"
)

// Engine bundles the service lifecycle, its CLI commands and the routes
// it mounts.
type Engine struct {
	Name      string
	Cmd       *cobra.Command
	FlagSet   *pflag.FlagSet
	ConfigKey string
	Configure func() error
	Start     func() error
	Shutdown  func() error
	Routes    func(router api.EchoRouter)
}

func NewPermitLedgerEngine() *Engine {
	se := pkg.PermitServiceInstance()

	return &Engine{
		Name:      "PermitServiceInstance",
		Cmd:       cmd(se),
		Configure: se.Configure,
		Start:     se.Start,
		ConfigKey: "permits",
		FlagSet:   flagSet(),
		Shutdown:  se.Shutdown,
		Routes: func(router api.EchoRouter) {
			api.RegisterHandlers(router, &api.Wrapper{Se: se})
		},
	}
}

func flagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("permits", pflag.ContinueOnError)
	return flags
}

func cmd(se *pkg.PermitService) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permit-service",
		Short: "consent permit ledger commands",
	}

	cmd.AddCommand(&cobra.Command{
		Use:     "selfcheck [receipts]",
		Example: "selfcheck 25",
		Short:   "mint a demo chain in-process, verify it and print the integrity report",

		RunE: func(cmd *cobra.Command, args []string) error {
			count := 25
			if len(args) > 0 {
				if _, err := fmt.Sscanf(args[0], "%d", &count); err != nil {
					return fmt.Errorf("receipts must be an integer: %w", err)
				}
			}

			if err := se.Configure(); err != nil {
				return err
			}
			if err := se.Start(); err != nil {
				return err
			}
			defer se.Shutdown()

			if _, err := se.IssuePermits(3, ledger.PermitMetadata{}, "selfcheck"); err != nil {
				return err
			}
			if _, err := se.GenerateReceipts(count, ledger.ActionInferenceRun, nil, "selfcheck"); err != nil {
				return err
			}

			chainResult, err := se.VerifyChain(nil, "selfcheck")
			if err != nil {
				return err
			}

			report, err := receipt_utils.RenderChainReport(se.Ledger.Stats(), ledger.ChainReport{
				Valid:  chainResult.Valid,
				Errors: chainResult.Errors,
			})
			if err != nil {
				return err
			}
			cmd.Println(report)
			if !chainResult.Valid {
				return fmt.Errorf("chain verification failed with %d errors", len(chainResult.Errors))
			}
			return nil
		},
	})
	return cmd
}
