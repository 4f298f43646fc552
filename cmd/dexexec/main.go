// Binary dexexec places one manual order on the XRPL DEX, or prints the account snapshot.
//
//	dexexec info
//	dexexec book
//	dexexec token <currency>
//	dexexec buy|sell <amount>
//	dexexec buy|sell <amount> <price>
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"solotrader-go/internal/config"
	"solotrader-go/internal/dex/xrpl"
	"solotrader-go/internal/execution"
	"solotrader-go/internal/signal"
	"solotrader-go/internal/util"
)

const defaultConfigPath = "config/config.yaml"

func main() {
	log := util.NewConsoleLogger("info")
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: dexexec info | book | token <currency> | buy|sell <amount> [price]")
		os.Exit(2)
	}

	cfg, err := config.Load(config.EnvOr("SOLOTRADER_CONFIG", defaultConfigPath))
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Dex.RequestTimeout())
	defer cancel()

	if os.Args[1] == "book" {
		client := xrpl.NewClient(cfg.Dex, cfg.Wallet.Account, nil, log)
		book, err := client.GetOrderBook(ctx, cfg.Dex.BaseCurrency, cfg.Dex.QuoteCurrency)
		if err != nil {
			log.Fatal().Err(err).Msg("orderbook")
		}
		printJSON(book)
		return
	}

	if os.Args[1] == "token" {
		currency := cfg.Dex.BaseCurrency
		if len(os.Args) > 2 {
			currency = strings.ToUpper(os.Args[2])
		}
		client := xrpl.NewClient(cfg.Dex, cfg.Wallet.Account, nil, log)
		tok, err := client.GetTokenInfo(ctx, currency)
		if err != nil {
			log.Fatal().Err(err).Msg("token info")
		}
		if tok == nil {
			log.Fatal().Str("currency", currency).Msg("token not listed")
		}
		printJSON(tok)
		return
	}

	seed, account, err := xrpl.LoadSeedFromEnv(cfg.Wallet.SeedEnv, cfg.Wallet.Account)
	if err != nil {
		log.Fatal().Err(err).Msg("wallet")
	}
	sub := xrpl.NewRPCSubmitter(config.EnvOr("XRPL_NODE_URL", cfg.Dex.NodeURL), seed, cfg.Dex.RequestTimeout())
	client := xrpl.NewClient(cfg.Dex, account, sub, log)

	if os.Args[1] == "info" {
		info, err := client.AccountInfo(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("account info")
		}
		printJSON(info)
		return
	}

	action, err := signal.ParseAction(os.Args[1])
	if err != nil || len(os.Args) < 3 {
		log.Fatal().Err(err).Msg("expected buy|sell <amount> [price]")
	}
	amount, err := strconv.ParseFloat(os.Args[2], 64)
	if err != nil {
		log.Fatal().Err(err).Msg("amount")
	}

	var resp signal.TradeResponse
	if len(os.Args) > 3 {
		price, perr := strconv.ParseFloat(os.Args[3], 64)
		if perr != nil {
			log.Fatal().Err(perr).Msg("price")
		}
		resp, err = client.PlaceLimitOrder(ctx, action, cfg.Dex.BaseCurrency, cfg.Dex.QuoteCurrency, amount, price)
	} else {
		router := execution.NewRouter(client, client.PairName(), cfg.Dex.RequestTimeout(), log)
		resp, err = router.Manual(ctx, action, amount)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("order")
	}
	printJSON(resp)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
