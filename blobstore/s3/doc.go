// Package s3 provides an Amazon S3 implementation of blobstore.Store.
//
// # Usage
//
//	store, err := s3.New(ctx, "my-bucket", "journal/",
//	    config.WithRegion("us-east-1"),
//	)
//
// # Features
//
//   - Multipart uploads for large blobs via the S3 transfer manager
//   - Automatic pagination for listing
//   - Configurable prefix for multi-tenant isolation
package s3
