package deployer

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/service/athena"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/firehose"
	"github.com/aws/aws-sdk-go-v2/service/glue"
	"github.com/aws/aws-sdk-go-v2/service/iam"
	"github.com/aws/aws-sdk-go-v2/service/lakeformation"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Mock clients delegate to optional func fields and fall back to empty
// responses, so each test only wires the calls it cares about.

type mockS3 struct {
	headBucketFunc           func(*s3.HeadBucketInput) (*s3.HeadBucketOutput, error)
	createBucketFunc         func(*s3.CreateBucketInput) (*s3.CreateBucketOutput, error)
	putBucketTaggingFunc     func(*s3.PutBucketTaggingInput) (*s3.PutBucketTaggingOutput, error)
	putObjectFunc            func(*s3.PutObjectInput) (*s3.PutObjectOutput, error)
	createBucketInputs       []*s3.CreateBucketInput
	putPublicAccessBlockCnt  int
	putBucketVersioningCnt   int
	putBucketEncryptionInput *s3.PutBucketEncryptionInput
	putObjectKeys            []string
}

func (m *mockS3) HeadBucket(_ context.Context, params *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if m.headBucketFunc != nil {
		return m.headBucketFunc(params)
	}
	return &s3.HeadBucketOutput{}, nil
}

func (m *mockS3) CreateBucket(_ context.Context, params *s3.CreateBucketInput, _ ...func(*s3.Options)) (*s3.CreateBucketOutput, error) {
	m.createBucketInputs = append(m.createBucketInputs, params)
	if m.createBucketFunc != nil {
		return m.createBucketFunc(params)
	}
	return &s3.CreateBucketOutput{}, nil
}

func (m *mockS3) PutPublicAccessBlock(_ context.Context, _ *s3.PutPublicAccessBlockInput, _ ...func(*s3.Options)) (*s3.PutPublicAccessBlockOutput, error) {
	m.putPublicAccessBlockCnt++
	return &s3.PutPublicAccessBlockOutput{}, nil
}

func (m *mockS3) PutBucketVersioning(_ context.Context, _ *s3.PutBucketVersioningInput, _ ...func(*s3.Options)) (*s3.PutBucketVersioningOutput, error) {
	m.putBucketVersioningCnt++
	return &s3.PutBucketVersioningOutput{}, nil
}

func (m *mockS3) PutBucketEncryption(_ context.Context, params *s3.PutBucketEncryptionInput, _ ...func(*s3.Options)) (*s3.PutBucketEncryptionOutput, error) {
	m.putBucketEncryptionInput = params
	return &s3.PutBucketEncryptionOutput{}, nil
}

func (m *mockS3) PutBucketTagging(_ context.Context, params *s3.PutBucketTaggingInput, _ ...func(*s3.Options)) (*s3.PutBucketTaggingOutput, error) {
	if m.putBucketTaggingFunc != nil {
		return m.putBucketTaggingFunc(params)
	}
	return &s3.PutBucketTaggingOutput{}, nil
}

func (m *mockS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if params.Key != nil {
		m.putObjectKeys = append(m.putObjectKeys, *params.Key)
	}
	if m.putObjectFunc != nil {
		return m.putObjectFunc(params)
	}
	return &s3.PutObjectOutput{}, nil
}

type mockGlue struct {
	getDatabaseFunc    func(*glue.GetDatabaseInput) (*glue.GetDatabaseOutput, error)
	createDatabaseFunc func(*glue.CreateDatabaseInput) (*glue.CreateDatabaseOutput, error)
	getCrawlerFunc     func(*glue.GetCrawlerInput) (*glue.GetCrawlerOutput, error)
	getTableFunc       func(*glue.GetTableInput) (*glue.GetTableOutput, error)

	createDatabaseInputs []*glue.CreateDatabaseInput
	createCrawlerInputs  []*glue.CreateCrawlerInput
	updateCrawlerInputs  []*glue.UpdateCrawlerInput
	createTableInputs    []*glue.CreateTableInput
	updateTableInputs    []*glue.UpdateTableInput
}

func (m *mockGlue) GetDatabase(_ context.Context, params *glue.GetDatabaseInput, _ ...func(*glue.Options)) (*glue.GetDatabaseOutput, error) {
	if m.getDatabaseFunc != nil {
		return m.getDatabaseFunc(params)
	}
	return &glue.GetDatabaseOutput{}, nil
}

func (m *mockGlue) CreateDatabase(_ context.Context, params *glue.CreateDatabaseInput, _ ...func(*glue.Options)) (*glue.CreateDatabaseOutput, error) {
	m.createDatabaseInputs = append(m.createDatabaseInputs, params)
	if m.createDatabaseFunc != nil {
		return m.createDatabaseFunc(params)
	}
	return &glue.CreateDatabaseOutput{}, nil
}

func (m *mockGlue) GetCrawler(_ context.Context, params *glue.GetCrawlerInput, _ ...func(*glue.Options)) (*glue.GetCrawlerOutput, error) {
	if m.getCrawlerFunc != nil {
		return m.getCrawlerFunc(params)
	}
	return &glue.GetCrawlerOutput{}, nil
}

func (m *mockGlue) CreateCrawler(_ context.Context, params *glue.CreateCrawlerInput, _ ...func(*glue.Options)) (*glue.CreateCrawlerOutput, error) {
	m.createCrawlerInputs = append(m.createCrawlerInputs, params)
	return &glue.CreateCrawlerOutput{}, nil
}

func (m *mockGlue) UpdateCrawler(_ context.Context, params *glue.UpdateCrawlerInput, _ ...func(*glue.Options)) (*glue.UpdateCrawlerOutput, error) {
	m.updateCrawlerInputs = append(m.updateCrawlerInputs, params)
	return &glue.UpdateCrawlerOutput{}, nil
}

func (m *mockGlue) GetTable(_ context.Context, params *glue.GetTableInput, _ ...func(*glue.Options)) (*glue.GetTableOutput, error) {
	if m.getTableFunc != nil {
		return m.getTableFunc(params)
	}
	return &glue.GetTableOutput{}, nil
}

func (m *mockGlue) CreateTable(_ context.Context, params *glue.CreateTableInput, _ ...func(*glue.Options)) (*glue.CreateTableOutput, error) {
	m.createTableInputs = append(m.createTableInputs, params)
	return &glue.CreateTableOutput{}, nil
}

func (m *mockGlue) UpdateTable(_ context.Context, params *glue.UpdateTableInput, _ ...func(*glue.Options)) (*glue.UpdateTableOutput, error) {
	m.updateTableInputs = append(m.updateTableInputs, params)
	return &glue.UpdateTableOutput{}, nil
}

type mockAthena struct {
	getWorkGroupFunc func(*athena.GetWorkGroupInput) (*athena.GetWorkGroupOutput, error)

	createWorkGroupInputs []*athena.CreateWorkGroupInput
	updateWorkGroupInputs []*athena.UpdateWorkGroupInput
}

func (m *mockAthena) GetWorkGroup(_ context.Context, params *athena.GetWorkGroupInput, _ ...func(*athena.Options)) (*athena.GetWorkGroupOutput, error) {
	if m.getWorkGroupFunc != nil {
		return m.getWorkGroupFunc(params)
	}
	return &athena.GetWorkGroupOutput{}, nil
}

func (m *mockAthena) CreateWorkGroup(_ context.Context, params *athena.CreateWorkGroupInput, _ ...func(*athena.Options)) (*athena.CreateWorkGroupOutput, error) {
	m.createWorkGroupInputs = append(m.createWorkGroupInputs, params)
	return &athena.CreateWorkGroupOutput{}, nil
}

func (m *mockAthena) UpdateWorkGroup(_ context.Context, params *athena.UpdateWorkGroupInput, _ ...func(*athena.Options)) (*athena.UpdateWorkGroupOutput, error) {
	m.updateWorkGroupInputs = append(m.updateWorkGroupInputs, params)
	return &athena.UpdateWorkGroupOutput{}, nil
}

type mockIAM struct {
	getRoleFunc                  func(*iam.GetRoleInput) (*iam.GetRoleOutput, error)
	listAttachedRolePoliciesFunc func(*iam.ListAttachedRolePoliciesInput) (*iam.ListAttachedRolePoliciesOutput, error)
	listRolePoliciesFunc         func(*iam.ListRolePoliciesInput) (*iam.ListRolePoliciesOutput, error)

	createRoleInputs       []*iam.CreateRoleInput
	updateTrustInputs      []*iam.UpdateAssumeRolePolicyInput
	attachRolePolicyInputs []*iam.AttachRolePolicyInput
	putRolePolicyInputs    []*iam.PutRolePolicyInput
	deleteRolePolicyInputs []*iam.DeleteRolePolicyInput
}

func (m *mockIAM) GetRole(_ context.Context, params *iam.GetRoleInput, _ ...func(*iam.Options)) (*iam.GetRoleOutput, error) {
	if m.getRoleFunc != nil {
		return m.getRoleFunc(params)
	}
	return &iam.GetRoleOutput{}, nil
}

func (m *mockIAM) CreateRole(_ context.Context, params *iam.CreateRoleInput, _ ...func(*iam.Options)) (*iam.CreateRoleOutput, error) {
	m.createRoleInputs = append(m.createRoleInputs, params)
	return &iam.CreateRoleOutput{}, nil
}

func (m *mockIAM) UpdateAssumeRolePolicy(_ context.Context, params *iam.UpdateAssumeRolePolicyInput, _ ...func(*iam.Options)) (*iam.UpdateAssumeRolePolicyOutput, error) {
	m.updateTrustInputs = append(m.updateTrustInputs, params)
	return &iam.UpdateAssumeRolePolicyOutput{}, nil
}

func (m *mockIAM) ListAttachedRolePolicies(_ context.Context, params *iam.ListAttachedRolePoliciesInput, _ ...func(*iam.Options)) (*iam.ListAttachedRolePoliciesOutput, error) {
	if m.listAttachedRolePoliciesFunc != nil {
		return m.listAttachedRolePoliciesFunc(params)
	}
	return &iam.ListAttachedRolePoliciesOutput{}, nil
}

func (m *mockIAM) AttachRolePolicy(_ context.Context, params *iam.AttachRolePolicyInput, _ ...func(*iam.Options)) (*iam.AttachRolePolicyOutput, error) {
	m.attachRolePolicyInputs = append(m.attachRolePolicyInputs, params)
	return &iam.AttachRolePolicyOutput{}, nil
}

func (m *mockIAM) ListRolePolicies(_ context.Context, params *iam.ListRolePoliciesInput, _ ...func(*iam.Options)) (*iam.ListRolePoliciesOutput, error) {
	if m.listRolePoliciesFunc != nil {
		return m.listRolePoliciesFunc(params)
	}
	return &iam.ListRolePoliciesOutput{}, nil
}

func (m *mockIAM) PutRolePolicy(_ context.Context, params *iam.PutRolePolicyInput, _ ...func(*iam.Options)) (*iam.PutRolePolicyOutput, error) {
	m.putRolePolicyInputs = append(m.putRolePolicyInputs, params)
	return &iam.PutRolePolicyOutput{}, nil
}

func (m *mockIAM) DeleteRolePolicy(_ context.Context, params *iam.DeleteRolePolicyInput, _ ...func(*iam.Options)) (*iam.DeleteRolePolicyOutput, error) {
	m.deleteRolePolicyInputs = append(m.deleteRolePolicyInputs, params)
	return &iam.DeleteRolePolicyOutput{}, nil
}

type mockFirehose struct {
	describeFunc func(*firehose.DescribeDeliveryStreamInput) (*firehose.DescribeDeliveryStreamOutput, error)

	createInputs []*firehose.CreateDeliveryStreamInput
	updateInputs []*firehose.UpdateDestinationInput
}

func (m *mockFirehose) DescribeDeliveryStream(_ context.Context, params *firehose.DescribeDeliveryStreamInput, _ ...func(*firehose.Options)) (*firehose.DescribeDeliveryStreamOutput, error) {
	if m.describeFunc != nil {
		return m.describeFunc(params)
	}
	return &firehose.DescribeDeliveryStreamOutput{}, nil
}

func (m *mockFirehose) CreateDeliveryStream(_ context.Context, params *firehose.CreateDeliveryStreamInput, _ ...func(*firehose.Options)) (*firehose.CreateDeliveryStreamOutput, error) {
	m.createInputs = append(m.createInputs, params)
	return &firehose.CreateDeliveryStreamOutput{}, nil
}

func (m *mockFirehose) UpdateDestination(_ context.Context, params *firehose.UpdateDestinationInput, _ ...func(*firehose.Options)) (*firehose.UpdateDestinationOutput, error) {
	m.updateInputs = append(m.updateInputs, params)
	return &firehose.UpdateDestinationOutput{}, nil
}

type mockEC2 struct {
	describeFunc func(*ec2.DescribeVpcEndpointsInput) (*ec2.DescribeVpcEndpointsOutput, error)

	describeInputs []*ec2.DescribeVpcEndpointsInput
	createInputs   []*ec2.CreateVpcEndpointInput
}

func (m *mockEC2) DescribeVpcEndpoints(_ context.Context, params *ec2.DescribeVpcEndpointsInput, _ ...func(*ec2.Options)) (*ec2.DescribeVpcEndpointsOutput, error) {
	m.describeInputs = append(m.describeInputs, params)
	if m.describeFunc != nil {
		return m.describeFunc(params)
	}
	return &ec2.DescribeVpcEndpointsOutput{}, nil
}

func (m *mockEC2) CreateVpcEndpoint(_ context.Context, params *ec2.CreateVpcEndpointInput, _ ...func(*ec2.Options)) (*ec2.CreateVpcEndpointOutput, error) {
	m.createInputs = append(m.createInputs, params)
	return &ec2.CreateVpcEndpointOutput{}, nil
}

type mockLakeFormation struct {
	getSettingsFunc func(*lakeformation.GetDataLakeSettingsInput) (*lakeformation.GetDataLakeSettingsOutput, error)
	grantFunc       func(*lakeformation.GrantPermissionsInput) (*lakeformation.GrantPermissionsOutput, error)

	putSettingsInputs []*lakeformation.PutDataLakeSettingsInput
	grantInputs       []*lakeformation.GrantPermissionsInput
}

func (m *mockLakeFormation) GetDataLakeSettings(_ context.Context, params *lakeformation.GetDataLakeSettingsInput, _ ...func(*lakeformation.Options)) (*lakeformation.GetDataLakeSettingsOutput, error) {
	if m.getSettingsFunc != nil {
		return m.getSettingsFunc(params)
	}
	return &lakeformation.GetDataLakeSettingsOutput{}, nil
}

func (m *mockLakeFormation) PutDataLakeSettings(_ context.Context, params *lakeformation.PutDataLakeSettingsInput, _ ...func(*lakeformation.Options)) (*lakeformation.PutDataLakeSettingsOutput, error) {
	m.putSettingsInputs = append(m.putSettingsInputs, params)
	return &lakeformation.PutDataLakeSettingsOutput{}, nil
}

func (m *mockLakeFormation) GrantPermissions(_ context.Context, params *lakeformation.GrantPermissionsInput, _ ...func(*lakeformation.Options)) (*lakeformation.GrantPermissionsOutput, error) {
	m.grantInputs = append(m.grantInputs, params)
	if m.grantFunc != nil {
		return m.grantFunc(params)
	}
	return &lakeformation.GrantPermissionsOutput{}, nil
}
