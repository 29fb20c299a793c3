package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typemux/typemux/app"
	"github.com/typemux/typemux/config"
	"github.com/typemux/typemux/core/message"
	"github.com/typemux/typemux/infra/logger"
)

var injectTopic string
var injectPayload string

var injectCmd = &cobra.Command{
	Use:   "inject",
	Short: "Dispatch a test message through a local router",
	RunE:  inject,
}

func init() {
	injectCmd.Flags().StringVar(&injectTopic, "topic", "test", "topic tag for the injected message")
	injectCmd.Flags().StringVar(&injectPayload, "payload", "{}", "payload of the injected message")
	rootCmd.AddCommand(injectCmd)
}

func inject(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// The MQTT source is not started here; the message goes straight
	// through the router.
	cfg.MQTT.Broker = ""

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	logg := logger.New("inject-command")
	defer func() {
		if err := svc.Close(); err != nil {
			logg.Errorf("service close: %v", err)
		}
	}()

	msg := message.Raw{Topic: injectTopic, Payload: []byte(injectPayload)}
	if !svc.Router.Dispatch(msg) {
		return fmt.Errorf("no handler for %T", msg)
	}
	logg.Infof("message dispatched on topic %s", injectTopic)
	return nil
}
