// Package hostid resolves the identity of the EC2 instance that the stats are
// collected from.
package hostid

import (
	"context"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/client"
	"github.com/aws/aws-sdk-go/aws/ec2metadata"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const (
	instanceIDPath       = "instance-id"
	availabilityZonePath = "placement/availability-zone"
)

// Identity of the instance, resolved once per run
type Identity struct {
	InstanceID       string
	AvailabilityZone string
	Region           string
}

// MetadataClient is the part of the EC2 instance metadata client that is
// needed to resolve an Identity
type MetadataClient interface {
	GetMetadataWithContext(ctx aws.Context, p string) (string, error)
}

// NewMetadataClient creates an instance metadata client whose requests are
// bounded by timeout and never retried.  If endpoint is blank the standard
// link-local metadata address is used.
func NewMetadataClient(p client.ConfigProvider, timeout time.Duration, endpoint string) *ec2metadata.EC2Metadata {
	conf := aws.NewConfig().
		WithHTTPClient(&http.Client{Timeout: timeout}).
		WithMaxRetries(0)
	if endpoint != "" {
		conf = conf.WithEndpoint(endpoint)
	}
	return ec2metadata.New(p, conf)
}

// AWSIdentity looks up the instance id and availability zone from the
// instance metadata service and derives the region from the zone.
func AWSIdentity(ctx context.Context, c MetadataClient) (*Identity, error) {
	instanceID, err := c.GetMetadataWithContext(ctx, instanceIDPath)
	if err != nil {
		return nil, errors.Wrap(err, "could not get instance id from EC2 metadata")
	}

	az, err := c.GetMetadataWithContext(ctx, availabilityZonePath)
	if err != nil {
		return nil, errors.Wrap(err, "could not get availability zone from EC2 metadata")
	}

	region, err := RegionFromAZ(az)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"instanceID":       instanceID,
		"availabilityZone": az,
		"region":           region,
	}).Debug("Resolved EC2 instance identity")

	return &Identity{
		InstanceID:       instanceID,
		AvailabilityZone: az,
		Region:           region,
	}, nil
}

// RegionFromAZ trims the trailing zone letter off of an availability zone,
// e.g. us-east-1a -> us-east-1
func RegionFromAZ(az string) (string, error) {
	if len(az) < 2 {
		return "", errors.Errorf("availability zone %q is too short to derive a region from", az)
	}
	return az[:len(az)-1], nil
}
