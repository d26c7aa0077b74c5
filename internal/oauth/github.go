package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	ghub "golang.org/x/oauth2/github"
)

type GitHub struct {
	cfg    *oauth2.Config
	apiURL string
}

func NewGitHub(clientID, clientSecret, redirectURI string) *GitHub {
	return &GitHub{
		cfg: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURI,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     ghub.Endpoint,
		},
		apiURL: "https://api.github.com",
	}
}

func (g *GitHub) Name() string { return "github" }

func (g *GitHub) AuthURL(state string) string {
	return g.cfg.AuthCodeURL(state)
}

func (g *GitHub) Exchange(ctx context.Context, code string) (*Identity, error) {
	tok, err := g.cfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}
	cli := g.cfg.Client(ctx, tok)

	var u struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	if err := getJSON(cli, g.apiURL+"/user", &u); err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, errors.New("missing github user id")
	}

	email := u.Email
	if email == "" {
		// profile email can be private; the emails endpoint has the verified one
		var emails []struct {
			Email    string `json:"email"`
			Primary  bool   `json:"primary"`
			Verified bool   `json:"verified"`
		}
		if err := getJSON(cli, g.apiURL+"/user/emails", &emails); err != nil {
			return nil, err
		}
		for _, e := range emails {
			if e.Primary && e.Verified {
				email = e.Email
				break
			}
		}
	}
	if email == "" {
		return nil, errors.New("no verified email on github account")
	}

	return &Identity{ExternalID: strconv.FormatInt(u.ID, 10), Email: email}, nil
}

func getJSON(cli *http.Client, url string, out any) error {
	resp, err := cli.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.New("github api: " + resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
