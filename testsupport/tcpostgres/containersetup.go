package tcpostgres

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	defaultImage = "postgres:16-alpine"
	pgPort       = nat.Port("5432/tcp")
)

// PostgresContainer is a postgres instance holding the response cache in tests.
type PostgresContainer struct {
	testcontainers.Container
	user     string
	password string
	dbName   string
}

type ContainerOption func(req *testcontainers.ContainerRequest, c *PostgresContainer)

func WithImage(image string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *PostgresContainer) {
		req.Image = image
	}
}

func WithWaitStrategy(strategies ...wait.Strategy) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *PostgresContainer) {
		req.WaitingFor = wait.ForAll(strategies...).WithDeadline(time.Minute)
	}
}

// WithName sets the container name. Named containers are reused between test runs.
func WithName(containerName string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, _ *PostgresContainer) {
		req.Name = containerName
	}
}

func WithCredentials(user, password, dbName string) ContainerOption {
	return func(req *testcontainers.ContainerRequest, c *PostgresContainer) {
		req.Env["POSTGRES_USER"] = user
		req.Env["POSTGRES_PASSWORD"] = password
		req.Env["POSTGRES_DB"] = dbName
		c.user, c.password, c.dbName = user, password, dbName
	}
}

// StartPostgres starts (or reuses) a postgres container.
func StartPostgres(ctx context.Context, opts ...ContainerOption) (*PostgresContainer, error) {
	ret := &PostgresContainer{}
	req := testcontainers.ContainerRequest{
		Image:        defaultImage,
		Env:          map[string]string{},
		ExposedPorts: []string{string(pgPort)},
		Cmd:          []string{"postgres", "-c", "fsync=off"},
	}
	WithCredentials("postgres", "password", "postgres")(&req, ret)
	for _, opt := range opts {
		opt(&req, ret)
	}

	container, err := testcontainers.GenericContainer(ctx,
		testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
			Reuse:            req.Name != "",
		})
	if err != nil {
		return nil, err
	}
	ret.Container = container
	return ret, nil
}

// ConnectionString returns the postgresql:// url of the started container.
func (c *PostgresContainer) ConnectionString(ctx context.Context) (string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", err
	}
	port, err := c.MappedPort(ctx, pgPort)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable",
		c.user, c.password, host, port.Port(), c.dbName), nil
}
