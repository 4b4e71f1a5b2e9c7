package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/cookiejar"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/myshop/go-shop-client/api"
	"github.com/myshop/go-shop-client/bootstrap"
	"github.com/myshop/go-shop-client/guard"
	"github.com/myshop/go-shop-client/internal/config"
	"github.com/myshop/go-shop-client/internal/utils"
	"github.com/myshop/go-shop-client/poll"
	"github.com/myshop/go-shop-client/ratelimit"
	"github.com/myshop/go-shop-client/session"
	"github.com/myshop/go-shop-client/transport"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error running client: %s\n", err)
	}
	log.Printf("Client stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	_ = godotenv.Load()
	c := config.New()
	displayAppname(c.GetAppName())

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	store := session.NewStore()
	notice := ratelimit.NewNotice()

	jar, err := cookiejar.New(nil)
	if err != nil {
		return fmt.Errorf("cookiejar.New: %w", err)
	}

	pipe, err := transport.NewPipeline(store,
		transport.WithNotice(notice),
		transport.WithLogger(logger),
		transport.WithAuthExpiredHandler(func() {
			logger.Warn().Msg("session expired, sign in again")
		}),
	)
	if err != nil {
		return fmt.Errorf("transport.NewPipeline: %w", err)
	}

	client, err := api.NewClient(c.GetBaseURL(),
		api.WithHTTPClient(&http.Client{Transport: pipe, Jar: jar}),
		api.WithBareClient(&http.Client{Jar: jar}),
		api.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("api.NewClient: %w", err)
	}
	pipe.SetRefresher(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	boot, err := bootstrap.New(store, client, bootstrap.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("bootstrap.New: %w", err)
	}
	if err := boot.Run(ctx); err != nil {
		return fmt.Errorf("bootstrap.Run: %w", err)
	}
	<-boot.Ready()

	g := guard.New(store)
	if g.Check(guard.Protected) == guard.Allow {
		user := utils.Value(store.Session().User)
		logger.Info().Str("user", user.Email).Str("role", string(user.Role)).Msg("signed in")
	} else {
		logger.Info().Msg("no session, browsing anonymously")
	}

	badge := poll.NewCartBadge(store, client, c.GetCartPollInterval(), logger)
	feed := poll.NewNotificationFeed(store, client, c.GetNotificationPollInterval(), logger,
		poll.WithOnNew(func(n api.Notification) {
			logger.Info().Str("title", n.Title).Msg("new notification")
		}),
	)
	go badge.Run(ctx)
	go feed.Run(ctx)

	waitForStopSignal()
	badge.Stop()
	feed.Stop()

	if advisory, ok := notice.Current(); ok {
		logger.Warn().Dur("remaining", notice.Remaining()).Msg(advisory.Message)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
