package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// DefaultDataAPIBase is the YouTube Data API v3 endpoint prefix
const DefaultDataAPIBase = "https://www.googleapis.com/youtube/v3"

// ErrQuotaExceeded is returned when the Data API rejects a request with 403
var ErrQuotaExceeded = errors.New("quota exceeded")

// DataAPI is a minimal YouTube Data API v3 client: enough to turn a
// channel URL into the list of videos on its uploads playlist.
type DataAPI struct {
	Key     string
	BaseURL string
	Client  *http.Client
}

// NewDataAPI creates a Data API client with the default endpoint
func NewDataAPI(key string) *DataAPI {
	return &DataAPI{
		Key:     key,
		BaseURL: DefaultDataAPIBase,
		Client:  http.DefaultClient,
	}
}

// channelResponse outlines what we use of the channels.list response
type channelResponse struct {
	Items []struct {
		ID             string `json:"id"`
		ContentDetails struct {
			RelatedPlaylists struct {
				Uploads string `json:"uploads"`
			} `json:"relatedPlaylists"`
		} `json:"contentDetails"`
		Snippet struct {
			Title string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// searchResponse outlines what we use of the search.list response
type searchResponse struct {
	Items []struct {
		Snippet struct {
			ChannelID string `json:"channelId"`
			Title     string `json:"title"`
		} `json:"snippet"`
	} `json:"items"`
}

// playlistItemsResponse outlines what we use of playlistItems.list
type playlistItemsResponse struct {
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ContentDetails struct {
			VideoID string `json:"videoId"`
		} `json:"contentDetails"`
		Snippet struct {
			Title        string `json:"title"`
			ChannelTitle string `json:"channelTitle"`
		} `json:"snippet"`
	} `json:"items"`
}

// Channel describes a resolved channel: its ID, display title and the
// playlist holding every upload.
type Channel struct {
	ID              string
	Title           string
	UploadsPlaylist string
}

func (c *DataAPI) get(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", c.Key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	res, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("requesting %s: %w", path, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", path, err)
	}

	if res.StatusCode != http.StatusOK {
		if res.StatusCode == http.StatusForbidden {
			return ErrQuotaExceeded
		}
		return fmt.Errorf("%s responded with status code %d: %q", path, res.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshalling %s response: %w", path, err)
	}
	return nil
}

// ChannelByID looks up a channel by its ID. Uses 1 quota.
func (c *DataAPI) ChannelByID(ctx context.Context, id string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("id", id)

	var res channelResponse
	if err := c.get(ctx, "/channels", params, &res); err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no channel found with ID %q", id)
	}

	item := res.Items[0]
	return &Channel{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		UploadsPlaylist: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// ChannelByUsername looks up a channel by its legacy username
func (c *DataAPI) ChannelByUsername(ctx context.Context, username string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "contentDetails,snippet")
	params.Set("forUsername", username)

	var res channelResponse
	if err := c.get(ctx, "/channels", params, &res); err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no channel found for username %q", username)
	}

	item := res.Items[0]
	return &Channel{
		ID:              item.ID,
		Title:           item.Snippet.Title,
		UploadsPlaylist: item.ContentDetails.RelatedPlaylists.Uploads,
	}, nil
}

// ChannelBySearch resolves a custom name or handle through search.list,
// then looks up the channel by the returned ID. Uses 100+1 quota.
func (c *DataAPI) ChannelBySearch(ctx context.Context, name string) (*Channel, error) {
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("q", name)
	params.Set("type", "channel")
	params.Set("maxResults", "1")

	var res searchResponse
	if err := c.get(ctx, "/search", params, &res); err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("no channel found for %q", name)
	}

	return c.ChannelByID(ctx, res.Items[0].Snippet.ChannelID)
}

// ResolveChannelURL turns any supported channel URL form into a Channel
func (c *DataAPI) ResolveChannelURL(ctx context.Context, channelURL string) (*Channel, error) {
	ref, err := ParseChannelURL(channelURL)
	if err != nil {
		return nil, err
	}

	switch ref.Kind {
	case ChannelRefID:
		return c.ChannelByID(ctx, ref.Value)
	case ChannelRefUsername:
		return c.ChannelByUsername(ctx, ref.Value)
	default:
		return c.ChannelBySearch(ctx, ref.Value)
	}
}

// PlaylistVideos fetches every video on a playlist, following
// nextPageToken until exhausted (50 items per page).
func (c *DataAPI) PlaylistVideos(ctx context.Context, playlistID string) ([]VideoReference, error) {
	var refs []VideoReference
	token := ""

	for {
		params := url.Values{}
		params.Set("part", "contentDetails,snippet")
		params.Set("playlistId", playlistID)
		params.Set("maxResults", "50")
		if token != "" {
			params.Set("pageToken", token)
		}

		var res playlistItemsResponse
		if err := c.get(ctx, "/playlistItems", params, &res); err != nil {
			return nil, fmt.Errorf("listing playlist %q: %w", playlistID, err)
		}

		for _, item := range res.Items {
			refs = append(refs, VideoReference{
				ID:       item.ContentDetails.VideoID,
				Title:    item.Snippet.Title,
				Channel:  item.Snippet.ChannelTitle,
				Playlist: playlistID,
			})
		}

		if res.NextPageToken == "" {
			return refs, nil
		}
		token = res.NextPageToken
	}
}

// ChannelVideos resolves a channel URL and lists all of its uploads
func (c *DataAPI) ChannelVideos(ctx context.Context, channelURL string) (*Channel, []VideoReference, error) {
	channel, err := c.ResolveChannelURL(ctx, channelURL)
	if err != nil {
		return nil, nil, err
	}

	refs, err := c.PlaylistVideos(ctx, channel.UploadsPlaylist)
	if err != nil {
		return nil, nil, err
	}

	for i := range refs {
		if refs[i].Channel == "" {
			refs[i].Channel = channel.Title
		}
	}

	return channel, refs, nil
}
