// travelctl — референсный CLI поверх SDK: собирает конфиг, хранилища,
// исполнитель запросов, фасады и менеджер сессии и выполняет одну команду.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kruglovaa/go-travel-client/internal/accounts"
	"github.com/kruglovaa/go-travel-client/internal/cache"
	"github.com/kruglovaa/go-travel-client/internal/client"
	"github.com/kruglovaa/go-travel-client/internal/config"
	"github.com/kruglovaa/go-travel-client/internal/models"
	"github.com/kruglovaa/go-travel-client/internal/notify"
	logctx "github.com/kruglovaa/go-travel-client/internal/pkg/log"
	"github.com/kruglovaa/go-travel-client/internal/pkg/redact"
	"github.com/kruglovaa/go-travel-client/internal/secrets"
	"github.com/kruglovaa/go-travel-client/internal/session"
	"github.com/kruglovaa/go-travel-client/internal/travel"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

const usage = `usage: travelctl [--config path] <command> [args]

commands:
  health                       check backend availability
  login <email> <password>     sign in and persist the credential
  register <name> <email> <password>
  me                           show the current profile
  logout                       sign out and drop the credential
  tours                        list tours
  tour <id>                    show one tour
  cities                       list cities
  categories                   list categories
  favourites                   list favourite tours
  unfavourite <tourId>         remove a tour from favourites
  chat <tourId> <message...>   ask the tour assistant
  accounts                     list remembered accounts
`

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = logctx.Into(ctx, log)

	if err := run(ctx, cfg, flag.Args()); err != nil {
		log.Error("command_failed", slog.String("err", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string) error {
	// Хранилища: секрет сессии и запомненные аккаунты.
	store, err := secrets.NewFile(cfg.Storage.SecretsDir)
	if err != nil {
		return err
	}

	accs, err := accounts.NewStore(cfg.Storage.AccountsPath)
	if err != nil {
		return err
	}

	// Кэш списков: redis, если задан URL, иначе процессный.
	var listCache cache.Cache
	if cfg.Cache.TTL > 0 {
		if cfg.Cache.RedisURL != "" {
			listCache, err = cache.NewRedis(cfg.Cache.RedisURL, "")
			if err != nil {
				return err
			}
		} else {
			listCache = cache.NewMemory(cfg.Cache.TTL)
		}
		defer func() { _ = listCache.Close() }()
	}

	// Уведомления: «диалоговый хост» CLI — терминал.
	hub := notify.NewHub()
	hub.Attach(func(n notify.Notification) {
		fmt.Fprintf(os.Stderr, "[%s] %s: %s\n", strings.ToUpper(n.Kind.String()), n.Title, n.Message)
	})

	// Менеджер сессии объявляется до клиента: он же источник credential.
	mgr := &managerHolder{}

	api, err := client.New(cfg.API.BaseURL,
		client.WithTimeout(cfg.API.Timeout),
		client.WithUserAgent(cfg.API.UserAgent),
		client.WithTokenSource(mgr),
	)
	if err != nil {
		return err
	}

	clients := travel.New(api, travel.Options{
		Cache:    listCache,
		CacheTTL: cfg.Cache.TTL,
	})

	mgr.Manager = session.New(clients.Auth, store, session.WithAccounts(accs))

	return dispatch(ctx, args, clients, mgr.Manager, accs, hub)
}

// managerHolder разрывает цикл инициализации клиент <-> менеджер сессии:
// клиенту нужен TokenSource до того, как менеджер собран.
type managerHolder struct {
	*session.Manager
}

func (h *managerHolder) Token(ctx context.Context) (string, error) {
	if h.Manager == nil {
		return "", nil
	}

	return h.Manager.Token(ctx)
}

func dispatch(ctx context.Context, args []string, clients *travel.Clients, mgr *session.Manager, accs *accounts.Store, hub *notify.Hub) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "health":
		ok, err := clients.Health.Check(ctx)
		if err != nil || !ok {
			// Недоступный бэкенд блокирует вход в приложение; ретрай — за пользователем.
			msg := client.UserMessage(err)
			if msg == "" {
				msg = "backend reported unavailable status"
			}
			hub.Error("Service unavailable", msg)
			if err != nil {
				return err
			}
			return fmt.Errorf("backend reported status=false")
		}
		fmt.Println("ok")
		return nil

	case "login":
		if len(rest) != 2 {
			return fmt.Errorf("usage: login <email> <password>")
		}
		user, err := mgr.SignIn(ctx, rest[0], rest[1])
		if err != nil {
			hub.Error("Sign-in failed", client.UserMessage(err))
			return err
		}
		fmt.Printf("signed in as %s (%s)\n", user.FullName, redact.Email(user.Email))
		return nil

	case "register":
		if len(rest) != 3 {
			return fmt.Errorf("usage: register <name> <email> <password>")
		}
		res, err := clients.Auth.Register(ctx, rest[0], rest[1], rest[2], rest[2])
		if err != nil {
			hub.Error("Registration failed", client.UserMessage(err))
			return err
		}
		fmt.Printf("registered %s\n", redact.Email(res.User.Email))
		return nil

	case "me":
		user, err := restoreSession(ctx, mgr)
		if err != nil {
			return err
		}
		fmt.Printf("%s <%s> verified=%v favourites=%d\n",
			user.FullName, user.Email, user.IsVerified, len(user.Favourites))
		return nil

	case "logout":
		mgr.SignOut(ctx)
		fmt.Println("signed out")
		return nil

	case "tours":
		tours, err := clients.Tours.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range tours {
			fmt.Printf("%s\t%s\t%.2f\n", t.ID, t.Title, t.Price)
		}
		return nil

	case "tour":
		if len(rest) != 1 {
			return fmt.Errorf("usage: tour <id>")
		}
		t, err := clients.Tours.ByID(ctx, rest[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s\n%s\nprice: %.2f rating: %.1f\n", t.Title, t.Description, t.Price, t.Rating)
		return nil

	case "cities":
		cities, err := clients.Cities.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range cities {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return nil

	case "categories":
		categories, err := clients.Categories.List(ctx)
		if err != nil {
			return err
		}
		for _, c := range categories {
			fmt.Printf("%s\t%s\n", c.ID, c.Name)
		}
		return nil

	case "favourites":
		if _, err := restoreSession(ctx, mgr); err != nil {
			return err
		}
		tours, err := clients.Favourites.List(ctx)
		if err != nil {
			return err
		}
		for _, t := range tours {
			fmt.Printf("%s\t%s\n", t.ID, t.Title)
		}
		return nil

	case "unfavourite":
		if len(rest) != 1 {
			return fmt.Errorf("usage: unfavourite <tourId>")
		}
		if _, err := restoreSession(ctx, mgr); err != nil {
			return err
		}
		if err := clients.Favourites.Delete(ctx, rest[0]); err != nil {
			return err
		}
		fmt.Println("removed")
		return nil

	case "chat":
		if len(rest) < 2 {
			return fmt.Errorf("usage: chat <tourId> <message...>")
		}
		reply, err := clients.Chat.Send(ctx, rest[0], strings.Join(rest[1:], " "), "")
		if err != nil {
			return err
		}
		fmt.Println(reply.Reply)
		return nil

	case "accounts":
		list, err := accs.List()
		if err != nil {
			return err
		}
		for _, a := range list {
			fmt.Printf("%s\t%s\t%s\n", a.ID, a.Name, redact.Email(a.Email))
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// restoreSession восстанавливает сессию перед командами, которым нужен
// аутентифицированный пользователь.
func restoreSession(ctx context.Context, mgr *session.Manager) (*models.User, error) {
	user, err := mgr.Restore(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("not signed in: run `travelctl login` first")
	}

	return user, nil
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
