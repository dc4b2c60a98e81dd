// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/tgmreplays/pkg/api" //nolint:depguard
	"github.com/ssargent/tgmreplays/pkg/scan"
	"github.com/ssargent/tgmreplays/pkg/steam"
	"github.com/ssargent/tgmreplays/pkg/storage"
)

// ScannerFactory builds a replay scanner with the given worker count
type ScannerFactory func(workers int) *scan.Scanner

// StorageFactory opens the state store under dir
type StorageFactory func(dir string) (*storage.DefaultStorage, error)

// ResolverFactory builds a steam name resolver backed by cache
type ResolverFactory func(config steam.Config, cache steam.NameCache) api.NameResolver

// Container holds all the dependencies for the application
type Container struct {
	scannerFactory  ScannerFactory
	storageFactory  StorageFactory
	resolverFactory ResolverFactory
	serverFactory   api.ServerFactory
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		scannerFactory: scan.NewScanner,
		storageFactory: storage.NewDefaultStorage,
		resolverFactory: func(config steam.Config, cache steam.NameCache) api.NameResolver {
			return steam.NewResolver(config, cache)
		},
		serverFactory: api.NewServerFactory(),
	}
}

// GetScannerFactory returns the scanner factory
func (c *Container) GetScannerFactory() ScannerFactory {
	return c.scannerFactory
}

// GetStorageFactory returns the storage factory
func (c *Container) GetStorageFactory() StorageFactory {
	return c.storageFactory
}

// GetResolverFactory returns the name resolver factory
func (c *Container) GetResolverFactory() ResolverFactory {
	return c.resolverFactory
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// SetScannerFactory allows overriding the scanner factory (for testing)
func (c *Container) SetScannerFactory(factory ScannerFactory) {
	c.scannerFactory = factory
}

// SetStorageFactory allows overriding the storage factory (for testing)
func (c *Container) SetStorageFactory(factory StorageFactory) {
	c.storageFactory = factory
}

// SetResolverFactory allows overriding the resolver factory (for testing)
func (c *Container) SetResolverFactory(factory ResolverFactory) {
	c.resolverFactory = factory
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}
