package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"gopkg.in/yaml.v3"

	"github.com/waldt/humilis/artifact"
	"github.com/waldt/humilis/layer"
	"github.com/waldt/humilis/packaging"
	"github.com/waldt/humilis/reference"
	"github.com/waldt/humilis/secrets"
	"github.com/waldt/humilis/servicecall"
	"github.com/waldt/humilis/stack"
)

// layerMeta is the YAML shape of a layer meta file.
type layerMeta struct {
	Layer struct {
		Name  string `yaml:"name"`
		Env   string `yaml:"env"`
		Stage string `yaml:"stage"`
	} `yaml:"layer"`
	Parameters map[string]any                   `yaml:"parameters"`
	References map[string]reference.Declaration `yaml:"references"`
}

func runResolve(args []string) error {
	fs := flag.NewFlagSet("resolve", flag.ExitOnError)
	cfgPath := fs.String("c", "humilis.yaml", "Path to the humilis configuration file")
	useAWS := fs.Bool("aws", false, "Resolve against AWS (S3 uploads, CloudFormation lookups)")
	localDir := fs.String("local", ".humilis", "Object store directory for local (non-AWS) runs")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: humilis resolve [options] <meta.yaml>\n\nResolve the references declared in a layer meta file.\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return fmt.Errorf("meta file path is required")
	}
	metaPath := fs.Arg(0)

	cfg, err := layer.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(metaPath)
	if err != nil {
		return fmt.Errorf("read meta file: %w", err)
	}
	var meta layerMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return fmt.Errorf("parse meta file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	l := &layer.Layer{
		Name:         meta.Layer.Name,
		EnvName:      meta.Layer.Env,
		EnvStage:     meta.Layer.Stage,
		Basedir:      filepath.Dir(metaPath),
		LoaderParams: meta.Parameters,
		Logger:       logger,
	}

	ctx := context.Background()
	deps, err := buildDeps(ctx, logger, *useAWS, *localDir)
	if err != nil {
		return err
	}
	registry := reference.NewRegistry(logger, deps)

	for name, decl := range meta.References {
		value, err := registry.Resolve(ctx, l, cfg, decl)
		if err != nil {
			return err
		}
		out, err := yaml.Marshal(map[string]any{name: value})
		if err != nil {
			return fmt.Errorf("encode result for %s: %w", name, err)
		}
		fmt.Print(string(out))
	}
	return nil
}

// buildDeps wires the resolver collaborators: real AWS clients behind -aws,
// filesystem and in-memory stand-ins otherwise. The OS keychain serves
// secrets in both modes.
func buildDeps(ctx context.Context, logger *slog.Logger, useAWS bool, localDir string) (reference.Deps, error) {
	deps := reference.Deps{
		Secrets:  secrets.NewKeyring(),
		Builder:  packaging.NewBuilder(logger),
		Services: servicecall.NewRegistry(),
	}

	if !useAWS {
		deps.Uploader = artifact.NewLocal(localDir)
		deps.Stacks = stack.NewFake()
		return deps, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return reference.Deps{}, fmt.Errorf("load AWS config: %w", err)
	}
	s3Client := s3.NewFromConfig(awsCfg)
	deps.Uploader = artifact.NewS3(s3Client)
	deps.Stacks = stack.NewCloudFormation(cloudformation.NewFromConfig(awsCfg))
	if err := deps.Services.Register("s3", servicecall.S3Factory(s3Client)); err != nil {
		return reference.Deps{}, err
	}
	return deps, nil
}
