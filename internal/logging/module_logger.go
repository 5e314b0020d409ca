package logging

import (
	"context"

	"github.com/magvolt/sitecms/pkg/interfaces"
)

const (
	rootModule     = "site"
	blogsModule    = "site.blogs"
	productsModule = "site.products"
	offersModule   = "site.offerings"
	teamModule     = "site.team"
	leadsModule    = "site.leads"
	mediaModule    = "site.media"
	httpModule     = "site.http"
	authModule     = "site.auth"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// BlogsLogger returns the logger namespace reserved for the blog service.
func BlogsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, blogsModule)
}

// ProductsLogger returns the logger namespace reserved for the product service.
func ProductsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, productsModule)
}

// OfferingsLogger returns the logger namespace reserved for the offerings service.
func OfferingsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, offersModule)
}

// TeamLogger returns the logger namespace reserved for the team service.
func TeamLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, teamModule)
}

// LeadsLogger returns the logger namespace reserved for the lead service.
func LeadsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, leadsModule)
}

// MediaLogger returns the logger namespace reserved for the image pipeline.
func MediaLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, mediaModule)
}

// HTTPLogger returns the logger namespace reserved for the API layer.
func HTTPLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, httpModule)
}

// AuthLogger returns the logger namespace reserved for the auth service.
func AuthLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, authModule)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var _ interfaces.Logger = noopLogger{}

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
