package helpers

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// NewESClient creates an Elasticsearch client with sane defaults and optional basic auth.
func NewESClient(addrs []string, username, password string) (*elasticsearch.Client, error) {
	cfg := elasticsearch.Config{
		Addresses: addrs,
		Username:  username,
		Password:  password,
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 5 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second}).DialContext,
		},
	}
	return elasticsearch.NewClient(cfg)
}

// ESIndex writes documents into a single index.
type ESIndex struct {
	Client *elasticsearch.Client
	Index  string
}

func NewESIndex(client *elasticsearch.Client, index string) *ESIndex {
	return &ESIndex{Client: client, Index: index}
}

func (x *ESIndex) Put(ctx context.Context, id string, doc any) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	req := esapi.IndexRequest{Index: x.Index, DocumentID: id, Body: bytes.NewReader(b), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := req.Do(c, x.Client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es index %s/%s: %s", x.Index, id, res.Status())
	}
	return nil
}

// Delete removes id; a missing document is not an error.
func (x *ESIndex) Delete(ctx context.Context, id string) error {
	req := esapi.DeleteRequest{Index: x.Index, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	res, err := req.Do(c, x.Client)
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return fmt.Errorf("es delete %s/%s: %s", x.Index, id, res.Status())
	}
	return nil
}
