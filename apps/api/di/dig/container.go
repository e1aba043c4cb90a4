package dig_container

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/onestop/apps/api/echo"
	"github.com/trezcool/onestop/core"
	"github.com/trezcool/onestop/core/store"
	logsvc "github.com/trezcool/onestop/services/logger"
	notifsvc "github.com/trezcool/onestop/services/notification"
	inmemdb "github.com/trezcool/onestop/storage/database/inmem"
	"github.com/trezcool/onestop/storage/seed"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	return logsvc.NewRollbarLogger(stdLogger, conf)
}

// newStore builds the store and loads the seed file into it.
// The configured default user, if any, becomes the session user.
func newStore(
	conf *core.Config,
	loggerParam StoreLoggerParam,
	db *inmemdb.DB,
	validate *validator.Validate,
	gateway core.NotificationGateway,
) *store.Store {
	logger := loggerParam.Logger
	st := store.New(store.Deps{
		Users:    inmemdb.NewUserRepository(db),
		Entries:  inmemdb.NewEntryRepository(db),
		Validate: validate,
		Logger:   logger,
		Gateway:  gateway,
		Location: conf.Location,
	})

	f, err := seed.Load(conf.SeedFile)
	if err != nil {
		logger.Fatal(fmt.Sprintf("loading seed: %v", err), err)
	}
	if err := seed.Apply(st, f); err != nil {
		logger.Fatal(fmt.Sprintf("applying seed: %v", err), err)
	}

	if conf.DefaultUserID != "" {
		if err := st.SetCurrentUser(conf.DefaultUserID); err != nil {
			logger.Warn(fmt.Sprintf("setting default user %q: %v", conf.DefaultUserID, err), err)
		}
	}
	return st
}

func newServer(
	conf *core.Config,
	logger core.Logger,
	st *store.Store,
	validate *validator.Validate,
	translator ut.Translator,
) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:       conf,
		Logger:     logger,
		Store:      st,
		Validate:   validate,
		Translator: translator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(store.NewValidator))
	must(c.Provide(inmemdb.Open))
	must(c.Provide(notifsvc.NewGateway))
	must(c.Provide(newStore))
	must(c.Provide(notifsvc.NewNotifier))
	must(c.Provide(newServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
