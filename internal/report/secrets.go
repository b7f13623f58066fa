// =============================================================================
// secrets.go - シークレット解決
// =============================================================================
//
// APIトークン類はSSMパラメータストア（/maki-daily-report/ 配下、SecureString）
// から取得します。ローカル実行時は環境変数から読むEnvResolverを使います。
//
// 【管理しているシークレット】
//   - SLACK_TOKEN
//   - NOTION_TOKEN
//   - GITHUB_TOKEN
//   - GOOGLE_SERVICE_ACCOUNT_JSON（サービスアカウントのJSONドキュメント）
//
// シークレットが引けない場合は致命的エラーとして扱い、フェッチを一切
// 開始せずに実行を打ち切る。
//
// =============================================================================
package report

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// secretPrefix はSSMパラメータのパスプレフィックス
const secretPrefix = "/maki-daily-report/"

// 解決するシークレット名
const (
	SecretSlackToken        = "SLACK_TOKEN"
	SecretNotionToken       = "NOTION_TOKEN"
	SecretGitHubToken       = "GITHUB_TOKEN"
	SecretGoogleCredentials = "GOOGLE_SERVICE_ACCOUNT_JSON"
)

// SecretError はシークレットの解決失敗を表す
type SecretError struct {
	Name string
	Err  error
}

func (e *SecretError) Error() string {
	return fmt.Sprintf("secret %s: %v", e.Name, e.Err)
}

func (e *SecretError) Unwrap() error { return e.Err }

// Resolver は名前からシークレット値を引く
type Resolver interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// SSMResolver はSSMパラメータストアからシークレットを取得するResolver
type SSMResolver struct {
	client *ssm.Client
}

// NewSSMResolver はデフォルトのAWS設定でSSMResolverを作成する
func NewSSMResolver(ctx context.Context) (*SSMResolver, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return &SSMResolver{client: ssm.NewFromConfig(cfg)}, nil
}

// Resolve は /maki-daily-report/{name} を復号付きで取得する
func (r *SSMResolver) Resolve(ctx context.Context, name string) (string, error) {
	out, err := r.client.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           aws.String(secretPrefix + name),
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", &SecretError{Name: name, Err: err}
	}
	if out.Parameter == nil || out.Parameter.Value == nil || *out.Parameter.Value == "" {
		return "", &SecretError{Name: name, Err: errors.New("parameter is empty")}
	}
	return *out.Parameter.Value, nil
}

// EnvResolver は環境変数からシークレットを読むResolver（ローカルCLI用）
type EnvResolver struct{}

// Resolve は同名の環境変数を読む
func (EnvResolver) Resolve(_ context.Context, name string) (string, error) {
	v := os.Getenv(name)
	if v == "" {
		return "", &SecretError{Name: name, Err: errors.New("environment variable is not set")}
	}
	return v, nil
}
