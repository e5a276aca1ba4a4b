package steam

import "go.uber.org/fx"

var Module = fx.Module("steam",
	fx.Provide(NewClient),
	fx.Provide(func(c *Client) LibraryFetcher { return c }),
	fx.Provide(NewImporter),
)
