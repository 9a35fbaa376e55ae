// Command deathnoted runs the digital testament ABCI application.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	dnapp "github.com/UZHBCON/deathnote/cmd/deathnoted/app"
	"github.com/UZHBCON/deathnote/commands/server"
	"github.com/UZHBCON/deathnote/crypto"
	"github.com/tendermint/tendermint/libs/log"
	"github.com/urfave/cli/v2"
)

var (
	homeFlag = &cli.StringFlag{
		Name:    "home",
		Usage:   "directory to store files under",
		Value:   filepath.Join(os.ExpandEnv("$HOME"), ".deathnote"),
		EnvVars: []string{"DEATHNOTE_HOME"},
	}
	logLevelFlag = &cli.StringFlag{
		Name:  "log-level",
		Usage: "minimum level to log: debug, info, error or none",
		Value: "info",
	}
	debugFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "return error call stacks to clients",
	}
	bindFlag = &cli.StringFlag{
		Name:  "bind",
		Usage: "address the ABCI server listens on",
		Value: "tcp://localhost:26658",
	}
	httpFlag = &cli.StringFlag{
		Name:  "http",
		Usage: "address of the read only API, empty to disable",
		Value: "localhost:8080",
	}
	mnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "derive the key from this recovery phrase instead of a new one",
	}
)

func newLogger(c *cli.Context) (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout)).
		With("module", "deathnote")
	opt, err := log.AllowLevel(c.String(logLevelFlag.Name))
	if err != nil {
		return nil, err
	}
	return log.NewFilter(logger, opt), nil
}

func initAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	return server.InitCmd(dnapp.GenInitOptions, logger, c.String(homeFlag.Name), c.Args().Slice())
}

func startAction(c *cli.Context) error {
	logger, err := newLogger(c)
	if err != nil {
		return err
	}
	return server.StartCmd(dnapp.GenerateApp, logger, c.String(homeFlag.Name), server.StartOptions{
		Bind:  c.String(bindFlag.Name),
		HTTP:  c.String(httpFlag.Name),
		Debug: c.Bool(debugFlag.Name),
	})
}

func keysAction(c *cli.Context) error {
	phrase := c.String(mnemonicFlag.Name)
	if phrase == "" {
		p, err := crypto.NewMnemonic()
		if err != nil {
			return err
		}
		phrase = p
	}
	key, err := crypto.DeriveKey(phrase, "", 0)
	if err != nil {
		return err
	}
	addr := key.PublicKey().Address()
	bech, err := addr.Bech32()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "mnemonic: %s\naddress:  %s\nbech32:   %s\n", phrase, addr, bech)
	return nil
}

func main() {
	app := &cli.App{
		Name:  dnapp.Name,
		Usage: "digital testament ABCI application",
		Flags: []cli.Flag{homeFlag, logLevelFlag, debugFlag},
		Commands: []*cli.Command{
			{
				Name:      "init",
				Usage:     "initialize app options in the genesis file",
				ArgsUsage: "[address]",
				Action:    initAction,
			},
			{
				Name:   "start",
				Usage:  "run the abci server and the read only API",
				Flags:  []cli.Flag{bindFlag, httpFlag},
				Action: startAction,
			},
			{
				Name:   "keys",
				Usage:  "derive a key and print its address",
				Flags:  []cli.Flag{mnemonicFlag},
				Action: keysAction,
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
