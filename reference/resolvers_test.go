package reference

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waldt/humilis/artifact"
	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/packaging"
	"github.com/waldt/humilis/secrets"
	"github.com/waldt/humilis/servicecall"
	"github.com/waldt/humilis/stack"
)

type fixture struct {
	registry *Registry
	layer    *layer.Layer
	cfg      *layer.Config
	store    *secrets.Memory
	uploader *artifact.Local
	stacks   *stack.Fake
	services *servicecall.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := secrets.NewMemory()
	uploader := artifact.NewLocal(t.TempDir())
	stacks := stack.NewFake()
	services := servicecall.NewRegistry()

	builder := packaging.NewBuilder(slog.Default())
	registry := NewRegistry(slog.Default(), Deps{
		Secrets:  store,
		Uploader: uploader,
		Stacks:   stacks,
		Services: services,
		Builder:  builder,
	})

	return &fixture{
		registry: registry,
		layer: &layer.Layer{
			Name:         "streams",
			EnvName:      "myenv",
			Basedir:      t.TempDir(),
			LoaderParams: map[string]any{"name": "x"},
		},
		cfg: &layer.Config{Profile: layer.Profile{
			Bucket:   "deploy-bucket",
			S3Prefix: "humilis/",
		}},
		store:    store,
		uploader: uploader,
		stacks:   stacks,
		services: services,
	}
}

func (f *fixture) resolve(t *testing.T, decl Declaration) (any, error) {
	t.Helper()
	return f.registry.Resolve(context.Background(), f.layer, f.cfg, decl)
}

func TestSecretResolver(t *testing.T) {
	f := newFixture(t)
	f.store.Set("github", "token", "hunter2")

	value, err := f.resolve(t, Declaration{
		Type: "secret",
		Args: Args{"service": "github", "key": "token"},
	})
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestSecretResolver_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolve(t, Declaration{
		Type: "secret",
		Args: Args{"service": "github", "key": "nope"},
	})
	require.ErrorIs(t, err, secrets.ErrNotFound)

	var resErr *ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "secret", resErr.Type)
}

func TestFileResolver_UploadsToDerivedAddress(t *testing.T) {
	f := newFixture(t)
	content := []byte("payload bytes")
	require.NoError(t, os.WriteFile(filepath.Join(f.layer.Basedir, "x.txt"), content, 0o644))

	value, err := f.resolve(t, Declaration{Type: "file", Args: Args{"path": "x.txt"}})
	require.NoError(t, err)

	result, ok := value.(map[string]any)
	require.True(t, ok, "file resolver must return an address mapping, got %T", value)
	assert.Equal(t, "deploy-bucket", result["s3bucket"])
	assert.Equal(t, "humilis/myenv/streams/x.txt", result["s3key"])

	stored, err := os.ReadFile(f.uploader.Path("deploy-bucket", "humilis/myenv/streams/x.txt"))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestFileResolver_StagedEnvironment(t *testing.T) {
	f := newFixture(t)
	f.layer.EnvStage = "blue"
	require.NoError(t, os.WriteFile(filepath.Join(f.layer.Basedir, "x.txt"), []byte("v"), 0o644))

	value, err := f.resolve(t, Declaration{Type: "file", Args: Args{"path": "x.txt"}})
	require.NoError(t, err)
	result := value.(map[string]any)
	assert.Equal(t, "humilis/myenv/blue/streams/x.txt", result["s3key"])
}

func TestFileResolver_MissingPathArg(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolve(t, Declaration{Type: "file", Args: Args{}})
	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "path", missing.Argument)
}

// noRepoBuilder builds packages as if outside any git repository.
func noRepoBuilder(t *testing.T, f *fixture) {
	t.Helper()
	builder := packaging.NewBuilder(slog.Default(), packaging.WithExecCommand(
		func(_ context.Context, name string, _ ...string) *exec.Cmd {
			if name == "git" {
				return exec.Command("sh", "-c", "echo 'fatal: not a git repository' >&2; exit 128")
			}
			return exec.Command("true")
		}))
	f.registry = NewRegistry(slog.Default(), Deps{
		Secrets:  f.store,
		Uploader: f.uploader,
		Stacks:   f.stacks,
		Services: f.services,
		Builder:  builder,
	})
}

func TestLambdaResolver_Directory(t *testing.T) {
	f := newFixture(t)
	noRepoBuilder(t, f)

	src := filepath.Join(f.layer.Basedir, "mylambda")
	require.NoError(t, os.MkdirAll(filepath.Join(src, ".git"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "handler.py"),
		[]byte("# preprocessor:template\nNAME = \"{{.name}}\"\n"), 0o644))

	value, err := f.resolve(t, Declaration{Type: "lambda", Args: Args{"path": "mylambda"}})
	require.NoError(t, err)

	result := value.(map[string]any)
	assert.Equal(t, "humilis/myenv/streams/mylambda.zip", result["s3key"])

	// Uploaded archive exists at the derived address.
	_, err = os.Stat(f.uploader.Path("deploy-bucket", "humilis/myenv/streams/mylambda.zip"))
	require.NoError(t, err)

	// Source tree untouched.
	orig, err := os.ReadFile(filepath.Join(src, "handler.py"))
	require.NoError(t, err)
	assert.Contains(t, string(orig), "{{.name}}")
}

func TestLambdaResolver_PrebuiltZipUploadedAsIs(t *testing.T) {
	f := newFixture(t)
	noRepoBuilder(t, f)

	content := []byte("PK\x03\x04 pretend zip")
	require.NoError(t, os.WriteFile(filepath.Join(f.layer.Basedir, "ready.zip"), content, 0o644))

	value, err := f.resolve(t, Declaration{Type: "lambda", Args: Args{"path": "ready.zip"}})
	require.NoError(t, err)

	result := value.(map[string]any)
	assert.Equal(t, "humilis/myenv/streams/ready.zip", result["s3key"])

	stored, err := os.ReadFile(f.uploader.Path("deploy-bucket", "humilis/myenv/streams/ready.zip"))
	require.NoError(t, err)
	assert.Equal(t, content, stored)
}

func TestLambdaResolver_SingleFile(t *testing.T) {
	f := newFixture(t)
	noRepoBuilder(t, f)

	require.NoError(t, os.WriteFile(filepath.Join(f.layer.Basedir, "handler.py"),
		[]byte("def handler(): pass\n"), 0o644))

	value, err := f.resolve(t, Declaration{Type: "lambda", Args: Args{"path": "handler.py"}})
	require.NoError(t, err)

	result := value.(map[string]any)
	assert.Equal(t, "humilis/myenv/streams/handler.zip", result["s3key"])
}

func TestLayerResolver_ResolvesPhysicalID(t *testing.T) {
	f := newFixture(t)
	f.stacks.AddResource("myenv-vpc", stack.Resource{
		LogicalID:  "MainSubnet",
		PhysicalID: "subnet-0abc",
	})

	value, err := f.resolve(t, Declaration{
		Type: "layer",
		Args: Args{"layer_name": "vpc", "resource_name": "MainSubnet"},
	})
	require.NoError(t, err)
	assert.Equal(t, "subnet-0abc", value)
}

func TestLayerResolver_AbsentResourceEnumeratesAvailable(t *testing.T) {
	f := newFixture(t)
	f.stacks.AddResource("myenv-vpc", stack.Resource{LogicalID: "A", PhysicalID: "phys-a"})
	f.stacks.AddResource("myenv-vpc", stack.Resource{LogicalID: "B", PhysicalID: "phys-b"})

	_, err := f.resolve(t, Declaration{
		Type: "layer",
		Args: Args{"layer_name": "vpc", "resource_name": "C"},
	})
	require.Error(t, err)

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, []string{"A", "B"}, notFound.Available)
	assert.Contains(t, err.Error(), "A")
	assert.Contains(t, err.Error(), "B")
	assert.Contains(t, err.Error(), "myenv-vpc")
}

func TestOutputResolver_ResolvesValue(t *testing.T) {
	f := newFixture(t)
	f.layer.EnvStage = "blue"
	f.stacks.AddOutput("myenv-api-blue", stack.Output{Key: "Endpoint", Value: "https://api.example.com"})

	value, err := f.resolve(t, Declaration{
		Type: "output",
		Args: Args{"layer_name": "api", "output_name": "Endpoint"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com", value)
}

func TestOutputResolver_AbsentOutputEnumeratesAvailable(t *testing.T) {
	f := newFixture(t)
	f.stacks.AddOutput("myenv-api", stack.Output{Key: "Endpoint", Value: "v"})
	f.stacks.AddOutput("myenv-api", stack.Output{Key: "TableName", Value: "t"})

	_, err := f.resolve(t, Declaration{
		Type: "output",
		Args: Args{"layer_name": "api", "output_name": "Missing"},
	})
	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "output", notFound.Kind)
	assert.ElementsMatch(t, []string{"Endpoint", "TableName"}, notFound.Available)
}

// echoFacade returns canned results for service-call tests.
type echoFacade struct {
	result any
}

func (e *echoFacade) Name() string { return "echo" }

func (e *echoFacade) Call(_ context.Context, _ string, _ []any, _ map[string]any) (any, error) {
	return e.result, nil
}

func registerEcho(t *testing.T, f *fixture, result any) {
	t.Helper()
	require.NoError(t, f.services.Register("echo", func(_ *layer.Config) (servicecall.Facade, error) {
		return &echoFacade{result: result}, nil
	}))
}

func TestServiceResolver_FirstElementAndKey(t *testing.T) {
	f := newFixture(t)
	registerEcho(t, f, []any{
		map[string]any{"id": "first"},
		map[string]any{"id": "second"},
	})

	value, err := f.resolve(t, Declaration{
		Type: "service",
		Args: Args{
			"service":    "echo",
			"call":       map[string]any{"method": "whatever"},
			"output_key": "id",
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "first", value)
}

func TestServiceResolver_RawResult(t *testing.T) {
	f := newFixture(t)
	registerEcho(t, f, "plain")

	value, err := f.resolve(t, Declaration{
		Type: "service",
		Args: Args{"service": "echo", "call": map[string]any{"method": "m"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "plain", value)
}

func TestServiceResolver_UnsupportedService(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolve(t, Declaration{
		Type: "service",
		Args: Args{"service": "nonesuch", "call": map[string]any{"method": "m"}},
	})
	require.ErrorIs(t, err, servicecall.ErrUnsupportedService)
}

func TestServiceResolver_MissingMethod(t *testing.T) {
	f := newFixture(t)
	registerEcho(t, f, "x")

	_, err := f.resolve(t, Declaration{
		Type: "service",
		Args: Args{"service": "echo", "call": map[string]any{}},
	})
	var missing *MissingArgumentError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "call.method", missing.Argument)
}
