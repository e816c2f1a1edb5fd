package cmd

import (
	"fmt"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/consentdesk/consent-permit-service/api"
	engine2 "github.com/consentdesk/consent-permit-service/engine"
	pkg2 "github.com/consentdesk/consent-permit-service/pkg"
)

const confPort = "port"
const confInterface = "interface"

var serveCommand = &cobra.Command{
	Use:   "serve",
	Short: "Start permit-service as a standalone api server",
	Run: func(cmd *cobra.Command, args []string) {
		instance := pkg2.PermitServiceInstance()
		if err := instance.Configure(); err != nil {
			logrus.WithError(err).Fatal("could not configure permit service")
		}
		if err := instance.Start(); err != nil {
			logrus.WithError(err).Fatal("could not start permit service")
		}

		server := echo.New()
		server.HideBanner = true
		server.Use(middleware.Logger())
		api.RegisterHandlers(server, &api.Wrapper{Se: instance})
		addr := fmt.Sprintf("%s:%d", serverInterface, serverPort)
		server.Logger.Fatal(server.Start(addr))
	},
}
var (
	serverInterface string
	serverPort      int
)

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	permitLedgerEngine := engine2.NewPermitLedgerEngine()

	var rootCommand = permitLedgerEngine.Cmd
	serveCommand.Flags().StringVar(&serverInterface, confInterface, "localhost", "Server interface binding")
	serveCommand.Flags().IntVarP(&serverPort, confPort, "p", 1324, "Server listen port")
	rootCommand.AddCommand(serveCommand)
	rootCommand.PersistentFlags().AddFlagSet(permitLedgerEngine.FlagSet)

	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
