/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"

	"gopkg.in/dnaeon/go-vcr.v3/cassette"
	"gopkg.in/dnaeon/go-vcr.v3/recorder"

	"github.com/toothbrush/notion-dump/internal/syncerr"
	"github.com/toothbrush/notion-dump/localdump"
	"github.com/toothbrush/notion-dump/notion"
)

var _ localdump.Remote = (*notion.API)(nil)

// authToken runs --auth-token-cmd when given, else reads NOTION_TOKEN.
func authToken() (string, error) {
	if len(AuthTokenCmd) > 0 {
		tokenCmdOutput, err := exec.Command(AuthTokenCmd[0], AuthTokenCmd[1:]...).Output()
		if err != nil {
			return "", syncerr.Wrap(err, syncerr.KindConfig, "", fmt.Sprintf("couldn't execute auth-token-cmd '%v'", AuthTokenCmd))
		}
		return strings.TrimSpace(strings.Split(string(tokenCmdOutput), "\n")[0]), nil
	}

	token := strings.TrimSpace(os.Getenv("NOTION_TOKEN"))
	if token == "" {
		return "", syncerr.New(syncerr.KindConfig, "", "please set NOTION_TOKEN or provide --auth-token-cmd")
	}
	return token, nil
}

// newAPI builds the Notion client.  With VCR on, HTTP traffic is replayed from (and new
// interactions recorded to) fixtures/notion-dump; the returned stop func flushes the cassette.
func newAPI(withVCR bool) (*notion.API, func() error, error) {
	token, err := authToken()
	if err != nil {
		return nil, nil, err
	}

	api, err := notion.NewAPI(token, notion.Options{Logger: logger})
	if err != nil {
		return nil, nil, syncerr.Wrap(err, syncerr.KindConfig, "", "Notion API creation failed")
	}

	stop := func() error { return nil }
	if withVCR {
		// set up VCR recordings.
		opts := &recorder.Options{
			CassetteName:       "fixtures/notion-dump",
			Mode:               recorder.ModeReplayWithNewEpisodes,
			SkipRequestLatency: true,
			RealTransport:      http.DefaultTransport,
		}
		r, err := recorder.NewWithOptions(opts)
		if err != nil {
			return nil, nil, fmt.Errorf("cmd: couldn't set up go-vcr recording: %w", err)
		}

		// Add a hook which removes Authorization headers from all requests
		hook := func(i *cassette.Interaction) error {
			delete(i.Request.Headers, "Authorization")
			return nil
		}
		r.AddHook(hook, recorder.AfterCaptureHook)
		r.SetReplayableInteractions(true)

		api.Client = r.GetDefaultClient()
		stop = r.Stop
	}

	return api, stop, nil
}
