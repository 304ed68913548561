/* Copyright 2019 Comcast Cable Communications Management, LLC
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package sio

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"

	"github.com/Comcast/p3/properties"

	"golang.org/x/net/publicsuffix"
)

// Jar is a cookie jar that remembers the cookies it has seen.
type Jar struct {
	*cookiejar.Jar
	Kookies []*http.Cookie `json:"cookies"`
}

func NewJar() (*Jar, error) {
	cookieJar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, err
	}
	return &Jar{Jar: cookieJar}, nil
}

func (j *Jar) SetCookies(u *url.URL, cs []*http.Cookie) {
	j.Jar.SetCookies(u, cs)
	j.Kookies = append(j.Kookies, cs...)
}

// FetchError reports an unhappy HTTP status.
type FetchError struct {
	URL        string
	StatusCode int
	Status     string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %s", e.URL, e.Status)
}

// Fetch is a Couplings that GETs a property document over HTTP.
//
// The document's format comes from Stdio.Format if given, otherwise
// from the response's Content-Type, otherwise from the URL's path.
type Fetch struct {
	URL     string
	Headers http.Header

	// Client defaults to a client using Jar.
	Client *http.Client

	Jar *Jar

	Debug bool

	*Stdio

	body io.ReadCloser
}

// NewFetch makes a Fetch with a new Jar.  Output goes to os.Stdout.
func NewFetch(u string) (*Fetch, error) {
	jar, err := NewJar()
	if err != nil {
		return nil, err
	}
	return &Fetch{
		URL:   u,
		Jar:   jar,
		Stdio: NewStdio(""),
	}, nil
}

func (f *Fetch) logf(format string, args ...interface{}) {
	if f.Debug {
		log.Printf(format, args...)
	}
}

// Start makes the request.
func (f *Fetch) Start(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", f.URL, nil)
	if err != nil {
		return err
	}
	for k, vs := range f.Headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	client := f.Client
	if client == nil {
		client = &http.Client{}
		if f.Jar != nil {
			client.Jar = f.Jar
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		f.logf("Fetch.Start Do error %v", err)
		return err
	}
	f.logf("Fetch.Start %s %s", f.URL, resp.Status)

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return &FetchError{
			URL:        f.URL,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
		}
	}

	if f.Format == "" {
		if ct := resp.Header.Get("Content-Type"); ct != "" && properties.FormatOf(ct) == "yaml" {
			f.Format = "yaml"
		} else {
			f.Format = properties.FormatOf(req.URL.Path)
		}
	}

	f.body = resp.Body
	f.In = resp.Body

	return f.Stdio.Start(ctx)
}

// Stop waits for the IO to finish and closes the response body.
func (f *Fetch) Stop(ctx context.Context) error {
	err := f.Stdio.Stop(ctx)
	if f.body != nil {
		if cerr := f.body.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
