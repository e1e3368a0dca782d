// Package providers holds code shared by the provider engines: the lazy
// HTTP session helper and the HTML node helpers the scraping engines
// parse portal markup with. Each engine lives in its own subpackage and
// implements driven.ProviderEngine.
//
// Engines are wired up in internal/core/services.
package providers
