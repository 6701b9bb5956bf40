package main

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/knobs-dev/knobs/internal/config"
	"github.com/knobs-dev/knobs/internal/errors"
)

func deployCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the build output to S3",
		Long: `Upload the build output to the configured S3 bucket.

Every file under the output directory is put to the bucket with its
relative path as the key, under the configured prefix. Content types
come from file extensions.

Configure the target in knobs.json:

  {
    "upload": {
      "s3": {"bucket": "my-site", "region": "eu-west-1"}
    }
  }

Credentials come from AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY.

Examples:
  knobs deploy
  knobs deploy --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "List what would upload without uploading")

	return cmd
}

func runDeploy(dryRun bool) error {
	// Load config
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if err := cfg.CheckVersion(version); err != nil {
		return err
	}

	if !cfg.HasS3() {
		return errors.New(errors.CategoryDeploy, "no S3 bucket configured").
			WithHint("Set upload.s3.bucket in knobs.json")
	}

	outDir := cfg.OutputPath()
	if _, err := os.Stat(outDir); err != nil {
		errorMsg("No build output at %s/", cfg.Build.OutDir)
		info("Run knobs build first")
		return errors.New(errors.CategoryDeploy, "nothing to deploy").Wrap(err)
	}

	s3cfg := cfg.Upload.S3

	var client *s3.Client
	if !dryRun {
		client, err = newS3Client(s3cfg)
		if err != nil {
			return err
		}
	}

	fmt.Printf("  Deploying %s/ to s3://%s/%s\n", cfg.Build.OutDir, s3cfg.Bucket, s3cfg.Prefix)
	fmt.Println()

	// Handle signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		cancel()
	}()

	var count int
	var total int64
	err = filepath.WalkDir(outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(outDir, path)
		if err != nil {
			return err
		}
		key := s3cfg.Prefix + filepath.ToSlash(rel)

		fi, err := d.Info()
		if err != nil {
			return err
		}

		if dryRun {
			info("would put %s (%s)", key, formatBytes(fi.Size()))
		} else {
			if err := putFile(ctx, client, s3cfg.Bucket, key, path); err != nil {
				return errors.Newf(errors.CategoryDeploy, "cannot upload %s", rel).Wrap(err)
			}
			info("%s (%s)", key, formatBytes(fi.Size()))
		}

		count++
		total += fi.Size()
		return nil
	})
	if err != nil {
		return errors.FromError(err, errors.CategoryDeploy, "deploy failed")
	}

	fmt.Println()
	if dryRun {
		warn("Dry run: %d files (%s) not uploaded", count, formatBytes(total))
	} else {
		success("Deployed %d files (%s)", count, formatBytes(total))
	}
	fmt.Println()

	return nil
}

// putFile uploads one file. The content type comes from the extension;
// unknown extensions fall back to octet-stream.
func putFile(ctx context.Context, client *s3.Client, bucket, key, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	return err
}
