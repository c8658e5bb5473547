package slides

import (
	"context"
	"fmt"
	"net/http"

	"golang.org/x/oauth2/jwt"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	gslides "google.golang.org/api/slides/v1"
)

// googleTokenURL is the OAuth2 token endpoint for service-account JWTs.
const googleTokenURL = "https://oauth2.googleapis.com/token"

// PresentationService is the subset of the Slides and Drive APIs the renderer uses.
type PresentationService interface {
	Create(ctx context.Context, title string) (*gslides.Presentation, error)
	Get(ctx context.Context, presentationID string) (*gslides.Presentation, error)
	BatchUpdate(ctx context.Context, presentationID string, requests []*gslides.Request) error
	MoveToFolder(ctx context.Context, fileID, folderID string) error
}

// GoogleService implements PresentationService with the Google API clients.
type GoogleService struct {
	slides *gslides.Service
	drive  *drive.Service
}

// ServiceAccountClient returns an HTTP client authorized as the service
// account for the presentations and drive scopes. privateKey is PEM.
func ServiceAccountClient(ctx context.Context, email, privateKey string) *http.Client {
	cfg := &jwt.Config{
		Email:      email,
		PrivateKey: []byte(privateKey),
		Scopes:     []string{gslides.PresentationsScope, drive.DriveScope},
		TokenURL:   googleTokenURL,
	}
	return cfg.Client(ctx)
}

// NewGoogleService creates the Slides and Drive clients on top of client.
// Extra options (e.g. option.WithEndpoint) apply to both.
func NewGoogleService(ctx context.Context, client *http.Client, opts ...option.ClientOption) (*GoogleService, error) {
	opts = append([]option.ClientOption{option.WithHTTPClient(client)}, opts...)

	slidesSvc, err := gslides.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create slides client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create drive client: %w", err)
	}

	return &GoogleService{slides: slidesSvc, drive: driveSvc}, nil
}

// Create implements PresentationService.
func (g *GoogleService) Create(ctx context.Context, title string) (*gslides.Presentation, error) {
	return g.slides.Presentations.Create(&gslides.Presentation{Title: title}).Context(ctx).Do()
}

// Get implements PresentationService.
func (g *GoogleService) Get(ctx context.Context, presentationID string) (*gslides.Presentation, error) {
	return g.slides.Presentations.Get(presentationID).Context(ctx).Do()
}

// BatchUpdate implements PresentationService.
func (g *GoogleService) BatchUpdate(ctx context.Context, presentationID string, requests []*gslides.Request) error {
	_, err := g.slides.Presentations.BatchUpdate(presentationID, &gslides.BatchUpdatePresentationRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return err
}

// MoveToFolder implements PresentationService.
func (g *GoogleService) MoveToFolder(ctx context.Context, fileID, folderID string) error {
	_, err := g.drive.Files.Update(fileID, &drive.File{}).
		AddParents(folderID).
		Fields("id, parents").
		Context(ctx).
		Do()
	return err
}
