package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	glog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/opst/vettracker/cmd/vetd/handlers"
	"github.com/opst/vettracker/pkg/auth/resettoken"
	"github.com/opst/vettracker/pkg/auth/token"
	kcs "github.com/opst/vettracker/pkg/configs/server"
	kpg "github.com/opst/vettracker/pkg/domain/vettracker/db/postgres"
	"github.com/opst/vettracker/pkg/imagestore"
	"github.com/opst/vettracker/pkg/metrics"
	"github.com/opst/vettracker/pkg/notification"
	"github.com/opst/vettracker/pkg/reminder"
	"github.com/opst/vettracker/pkg/utils/echoutil"
	"github.com/opst/vettracker/pkg/utils/filewatch"
)

func main() {
	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	logger := glog.New("vetd")
	lvl, _ := echoutil.ParseLevel(*loglevel)
	logger.SetLevel(lvl)

	conf, err := kcs.Load(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, cancel, err := filewatch.UntilModifyContext(ctx, *configPath)
	if err != nil {
		log.Fatalf("can not watch configration: %s", err)
	}
	defer cancel()

	db, err := kpg.New(ctx, conf.Database.URL, kpg.WithTimeZone(conf.Timezone))
	if err != nil {
		log.Fatalf("can not connect database: %s", err)
	}
	defer db.Close()

	if err := ensureAdmin(ctx, logger, db.Owner(), db.Account(), conf.Auth); err != nil {
		log.Fatalf("can not prepare the administrator: %s", err)
	}

	var relay notification.Relay
	var resets resettoken.Store
	if r := conf.Redis; r != nil {
		rdb := redis.NewClient(&redis.Options{Addr: r.Addr, Password: r.Password, DB: r.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatalf("can not connect redis: %s", err)
		}
		relay = notification.Redis(rdb, r.Channel, logger)
		resets = resettoken.Redis(rdb)
	} else {
		logger.Info("redis is not configured. notifications are delivered only in this process.")
		relay = notification.Local()
		resets = resettoken.Memory()
	}

	var images imagestore.Store
	var uploads string
	switch conf.Images.Backend {
	case kcs.GCSImages:
		images, err = imagestore.GCS(ctx, conf.Images.Bucket, conf.Images.CredentialsFile)
	default:
		images, err = imagestore.Local(conf.Images.Dir, conf.Images.URLPrefix)
		uploads = conf.Images.Dir
	}
	if err != nil {
		log.Fatalf("can not prepare image store: %s", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	hub := notification.NewHub(logger)
	notifier := notification.NewNotifier(db.Notification(), relay, logger, m.NotificationsSent)

	issuer := token.New(conf.Auth.Issuer, conf.Auth.Audience, []byte(conf.Auth.Secret))
	loc := conf.Location()

	e := BuildServer(Server{
		Context:  ctx,
		Logger:   logger,
		LogLevel: *loglevel,
		DB:       db,
		Issuer:   issuer,
		Resets:   resets,
		Images:   images,
		Hub:      hub,
		Notifier: notifier,
		Metrics:  m,
		Session: handlers.SessionConfig{
			Admin:        conf.Auth.Admin,
			Session:      conf.Auth.Session,
			Remember:     conf.Auth.Remember,
			APIToken:     conf.Auth.APIToken,
			SecureCookie: conf.Auth.SecureCookie,
		},
		ResetPage:     conf.Auth.ResetPage,
		Uploads:       uploads,
		UploadsPrefix: conf.Images.URLPrefix,
		LoginRate:     conf.RateLimit.Login,
		LoginBurst:    conf.RateLimit.Burst,
		Now:           time.Now,
		Location:      loc,
	})

	logger.Info("registred routes:")
	for _, r := range e.Routes() {
		logger.Info(r.Method, " ", r.Path)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := notification.Pipe(gctx, relay, hub); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
	if conf.Reminder.IsEnabled() {
		rem := reminder.New(db.Appointment(), notifier, logger, loc)
		stopped, err := rem.Start(gctx, conf.Reminder.Spec)
		if err != nil {
			log.Fatalf("can not start reminder: %s", err)
		}
		g.Go(func() error {
			<-stopped
			return nil
		})
	}
	g.Go(func() error {
		var err error
		if cert, key := *pcert, *pkey; cert != "" && key != "" {
			err = e.StartTLS(":"+conf.Port, cert, key)
		} else {
			err = e.Start(":" + conf.Port)
		}
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down...")
		graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return e.Shutdown(graceful)
	})

	if err := g.Wait(); err != nil {
		logger.Fatal(err)
	}
}
