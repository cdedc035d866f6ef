package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	cardpointe "github.com/DanielPopoola/cardpointe-go"
	"github.com/DanielPopoola/cardpointe-go/cardsecure"
	"github.com/DanielPopoola/cardpointe-go/gateway"
	"github.com/DanielPopoola/cardpointe-go/internal/config"
	"github.com/DanielPopoola/cardpointe-go/payload"
)

type app struct {
	gateway    *gateway.Gateway
	cardsecure *cardsecure.CardSecure
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "cardpointe",
		Short:         "Call the CardPointe Gateway and CardSecure APIs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	root.AddCommand(a.newEchoCmd(), a.newMerchantCmd(), a.newCallCmd())
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a.logger = cfg.Logger.NewLogger()
	slog.SetDefault(a.logger)

	creds := cfg.Credentials()
	opts := cfg.Options(a.logger)

	a.gateway, err = gateway.NewWithCredentials(creds, opts...)
	if err != nil {
		return err
	}
	a.cardsecure, err = cardsecure.NewWithCredentials(creds, opts...)
	if err != nil {
		return err
	}

	a.logger.Debug("clients ready", "env", cfg.Primary.Env, "credentials", creds)
	return nil
}

func (a *app) newEchoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "echo [message]",
		Short: "Ping CardSecure",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			message := ""
			if len(args) == 1 {
				message = args[0]
			}
			resp, err := a.cardsecure.Echo().Create(cmd.Context(), payload.New(payload.F("message", message)))
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func (a *app) newMerchantCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merchant",
		Short: "Show the merchant configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.logger.Debug("inquiring merchant", "merchid", a.gateway.MerchantID())
			resp, err := a.gateway.InquireMerchant().Get(cmd.Context(), payload.Payload{})
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func (a *app) newCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <gateway|cardsecure> <service> <action> [key=value ...]",
		Short: "Invoke any service action",
		Example: "  cardpointe call gateway inquire get retref=296072706652\n" +
			"  cardpointe call cardsecure tokenize create account=4111111111111111 expiry=1222",
		Args: cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.lookup(args[0], args[1])
			if err != nil {
				return err
			}
			p, err := parseFields(args[3:])
			if err != nil {
				return err
			}
			resp, err := svc.Do(cmd.Context(), cardpointe.Action(args[2]), p)
			if err != nil {
				return err
			}
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}
}

func (a *app) lookup(api, name string) (cardpointe.Service, error) {
	switch api {
	case "gateway":
		return a.gateway.Service(name)
	case "cardsecure":
		return a.cardsecure.Service(name)
	default:
		return nil, fmt.Errorf("unknown api %q, expected gateway or cardsecure", api)
	}
}

// parseFields reads key=value pairs. Values starting with { or [ are decoded
// as JSON so userfields and similar nested values can be passed.
func parseFields(args []string) (payload.Payload, error) {
	var p payload.Payload
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return payload.Payload{}, fmt.Errorf("invalid field %q, expected key=value", arg)
		}
		if strings.HasPrefix(value, "{") || strings.HasPrefix(value, "[") {
			var nested any
			if err := json.Unmarshal([]byte(value), &nested); err != nil {
				return payload.Payload{}, fmt.Errorf("field %q: %w", key, err)
			}
			p.Set(key, nested)
			continue
		}
		p.Set(key, value)
	}
	return p, nil
}

func printResponse(w io.Writer, resp *cardpointe.Response) error {
	var out any = resp.Body
	if len(resp.Items) > 1 {
		out = resp.Items
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
